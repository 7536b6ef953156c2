package main

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
)

//go:embed templates/*.html
var templatesFS embed.FS

// projectsPerPage is how many project cards the carousel shows at once.
const projectsPerPage = 2

func loadTemplates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.html"))
}

// site serves the public portfolio pages and the HTMX contact form.
type site struct {
	portfolio     *content.Portfolio
	sender        contact.Sender
	submitTimeout time.Duration
	retention     time.Duration
	logger        *slog.Logger
}

func (s *site) register(r gin.IRouter) {
	r.GET("/", s.index)
	r.GET("/contact-form", s.contactForm)
	r.GET("/contact/reset", s.contactReset)
	r.POST("/contact", s.contactSubmit)
	r.GET("/projects", s.projects)
	r.GET("/work-content", s.workContent)
	r.GET("/education-content", s.educationContent)
	r.GET("/privacy", s.privacy)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func (s *site) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"portfolio": s.portfolio,
	})
}

// contactForm returns just the form HTML for HTMX.
func (s *site) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"fields":          contact.Submission{},
		"submitLabel":     contact.SubmitLabel,
		"submittingLabel": contact.SubmittingLabel,
	})
}

// contactReset clears a terminal status once the visitor edits the form.
func (s *site) contactReset(c *gin.Context) {
	c.String(http.StatusOK, "")
}

// contactSubmit runs one submission through a fresh controller and renders
// the resulting status fragment.
func (s *site) contactSubmit(c *gin.Context) {
	ctrl := contact.NewController(s.sender,
		contact.WithSubmitTimeout(s.submitTimeout),
		contact.WithLogger(s.logger),
	)
	ctrl.SetFields(contact.Submission{
		Name:    c.PostForm("name"),
		Email:   c.PostForm("email"),
		Subject: c.PostForm("subject"),
		Message: c.PostForm("message"),
	})

	st := ctrl.Submit(c.Request.Context())
	if st.State == contact.Succeeded {
		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": st.Message,
		})
		return
	}

	c.HTML(http.StatusOK, "contact-error.html", gin.H{
		"error": st.Message,
	})
}

// projects renders one window of the project carousel.
func (s *site) projects(c *gin.Context) {
	offset, _ := strconv.Atoi(c.Query("offset"))
	car := content.NewCarousel(len(s.portfolio.Projects), projectsPerPage, offset)
	start, end := car.Window()

	c.HTML(http.StatusOK, "projects.html", gin.H{
		"carousel":   car,
		"projects":   s.portfolio.Projects[start:end],
		"prevOffset": car.Prev().Offset,
		"nextOffset": car.Next().Offset,
	})
}

func (s *site) workContent(c *gin.Context) {
	c.HTML(http.StatusOK, "work-content.html", gin.H{
		"experience": s.portfolio.Experience,
	})
}

func (s *site) educationContent(c *gin.Context) {
	c.HTML(http.StatusOK, "education-content.html", gin.H{
		"education":      s.portfolio.Education,
		"certifications": s.portfolio.Certifications,
	})
}

func (s *site) privacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", gin.H{
		"title":         "Privacy Policy",
		"retentionDays": int(s.retention.Hours() / 24),
	})
}

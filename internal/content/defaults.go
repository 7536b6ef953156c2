package content

// Default returns the built-in portfolio content.
func Default() Portfolio {
	return Portfolio{
		Name:     "Maria Sultan",
		Headline: []string{"Software Engineer", "Maria Sultan", "AI & Tech Enthusiast"},
		Intro: `Passionate about AI, Machine Learning, and Software Development.
Currently pursuing Software Engineering with hands-on experience in
deep learning, LLMs, and embedded systems.`,
		About: []string{
			`I'm Maria Sultan, a Software Engineering student with practical exposure to AI,
embedded systems, and software development. I completed an AI internship at NESCOM,
where I gained hands-on experience with deep learning, LLMs, and RAG systems.`,
			`My projects include RAG-based query systems using Gemini embeddings and FAISS,
and an ESP32-CAM Sign Language to Text Converter using OpenCV and Python.
I'm passionate about applying AI to solve real-world problems.`,
		},
		Skills: []Skill{
			{Name: "Python", Level: 90, Category: "Programming"},
			{Name: "AI/ML", Level: 85, Category: "AI"},
			{Name: "Java Spring Boot", Level: 80, Category: "Backend"},
			{Name: "C++", Level: 85, Category: "Programming"},
			{Name: "MySQL", Level: 75, Category: "Database"},
			{Name: "HTML/CSS/JS", Level: 80, Category: "Frontend"},
			{Name: "OpenCV", Level: 75, Category: "Computer Vision"},
			{Name: "Django", Level: 70, Category: "Framework"},
		},
		Projects: []Project{
			{
				Title:        "Infectious Disease Prediction & Hotspot Analysis",
				Duration:     "Nov 2024 - Jan 2025",
				Description:  "Django-based web app using unsupervised autoencoder model and Apriori algorithm for disease hotspot prediction.",
				Technologies: []string{"Python", "TensorFlow", "Django", "Pandas", "HTML/CSS"},
				Type:         "AI/ML",
				GithubLink:   "https://github.com/MariaSultanBahoo/Infectious-Disease-Prediction-Hotspot-Analysis",
			},
			{
				Title:        "RAG on SQL Database",
				Duration:     "June 2025 - In Progress",
				Description:  "RAG pipeline using Gemini embeddings and FAISS for intelligent database querying with natural language.",
				Technologies: []string{"Python", "SQLite", "FAISS", "Gemini API", "Streamlit"},
				Type:         "AI/NLP",
			},
			{
				Title:        "Real-time Sign Language Recognition",
				Duration:     "April 2025 - May 2025",
				Description:  "ESP32-CAM system with OpenCV for real-time sign language gesture recognition and text conversion.",
				Technologies: []string{"ESP32-CAM", "OpenCV", "Python", "Tkinter"},
				Type:         "IoT/CV",
				GithubLink:   "https://github.com/MariaSultanBahoo/-Real-Time-Sign-Language-Recognition-using-ESP32-CAM-OpenCV",
			},
		},
		Education: []Education{
			{
				Degree:      "Bachelor of Science in Software Engineering",
				Institution: "Fatima Jinnah Women University, Rawalpindi",
				Duration:    "Nov 2022 - Present",
				CGPA:        "3.45",
			},
			{
				Degree:      "Intermediate in Computer Science",
				Institution: "Global College System, Rawalpindi",
				Duration:    "July 2020 - July 2022",
				Percentage:  "84%",
			},
			{
				Degree:      "Matriculation in Computer Science",
				Institution: "F.G Girls Public High School, Rawalpindi",
				Duration:    "Oct 2017 - July 2020",
				Percentage:  "86%",
			},
		},
		Experience: []Experience{
			{Role: "AI Intern - NESCOM", Duration: "April 2025 - June 2025", Description: "Deep learning, LLMs, and RAG system implementation"},
			{Role: "BETA MLSA - Microsoft", Description: "Student Ambassador facilitating tech community collaboration"},
		},
		Certifications: []string{
			"Python Essentials (CISCO Networking Academy)",
			"Basics of DataScience (Cambridge International)",
			"Python Programming (OpenWeaver)",
			"HTML/CSS Fundamentals (OpenWeaver)",
		},
		ContactBlurb: "I'm always open to discussing new opportunities, collaborations, or just having a chat about technology and AI. Feel free to reach out through any of the channels below.",
		Phone:        "+92 317 5268645",
	}
}

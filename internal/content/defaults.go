package content

import "github.com/Zachkp/folio/internal/scrollstate"

var (
	aboutMe = `I love building software that’s both useful and fun, and I’m always curious about how things work behind the scenes.
	Most of my projects start with a simple idea and turn into a chance to learn something new, whether it’s exploring a
	different language, experimenting with tools, or solving tricky problems.

	When I’m not coding, you’ll usually find me training Muay Thai, shooting pool with friends,
	or chasing down a new challenge outside the screen.`

	projectMail = `A terminal-based email client built in **Go** with fuzzyfinder capabilities
	using the Charmbracelet TUI framework and go-imap.`

	projectMusic = `A terminal-based music streaming application built in **Go** with an elegant TUI
	interface, leveraging yt-dlp and mpv for YouTube Music playback directly from the command line.`

	projectGames = `A machine learning-powered web application that uses TF-IDF vectorization and cosine
	similarity to recommend games based on content analysis, with interactive data visualizations and
	filtering by user reviews and ratings.`

	projectFolio = `This site: a server-driven portfolio built with **Go**, Gin and HTMX. Scroll position,
	nav highlighting and reveal animations are derived on the server per page view.`
)

// Default returns the built-in site used when no content file is configured.
func Default() (*Site, error) {
	s := &Site{
		Owner: Owner{
			Name:     "Zach Kordas-Potter",
			Initials: "ZK",
			Title:    "Software Developer",
			Tagline:  "I build tools for the terminal and the web.",
			GitHub:   "https://github.com/Zachkp",
		},
		Nav: []NavItem{
			{Name: "Home", Section: "hero"},
			{Name: "About", Section: "about"},
			{Name: "Projects", Section: "projects"},
			{Name: "Experience", Section: "experience"},
		},
		About: aboutMe,
		Skills: []Skill{
			{Name: "Go", Icon: "🐹"},
			{Name: "Python", Icon: "🐍"},
			{Name: "HTMX", Icon: "⚡"},
			{Name: "SQLite", Icon: "🗄️"},
			{Name: "Linux", Icon: "🐧"},
			{Name: "Tailwind CSS", Icon: "🎨"},
		},
		SkillAreas: []SkillArea{
			{Name: "Backend Development", Description: "Go, Gin, Python"},
			{Name: "Terminal Applications", Description: "Bubble Tea, Lip Gloss"},
			{Name: "Web Technologies", Description: "HTMX, Alpine.js, Tailwind CSS"},
			{Name: "Data", Description: "SQLite, scikit-learn"},
		},
		Projects: []Project{
			{Title: "Terminal Mail", Description: projectMail, Tags: []string{"Go", "Bubble Tea", "IMAP"}},
			{Title: "Terminal Music", Description: projectMusic, Tags: []string{"Go", "yt-dlp", "mpv"}},
			{Title: "Game Recommender", Description: projectGames, Tags: []string{"Python", "scikit-learn"}},
			{Title: "Portfolio", Description: projectFolio, Tags: []string{"Go", "Gin", "HTMX"}},
		},
		Experience: []Job{
			{
				Title:   "Presentation Expert",
				Company: "Target",
				Period:  "Aug 2023 - Present",
				Logo:    "/images/TargetLogo.jpg",
				Bullets: []string{
					"Executed over 300 merchandising transitions on tight timelines by organizing team workflows and adapting quickly to changing priorities",
					"Boosted operational efficiency by managing backroom inventory processes and streamlining communication between floor and logistics teams",
					"Enhanced pricing and signage accuracy across departments by standardizing daily checks and collaborating cross-functionally",
				},
			},
			{
				Title:   "Manager",
				Company: "Jasons Catered Events",
				Period:  "Aug 2016 - Present",
				Logo:    "/images/jasonsCateringLogo.png",
				Bullets: []string{
					"Improved client satisfaction by coordinating customized menus and ensuring all dietary requirements were accurately met",
					"Supported event technology by troubleshooting AV equipment and managing digital order tracking systems",
					"Maintained supply inventory and coordinated timely delivery between venues",
				},
			},
		},
		Contact: []ContactInfo{
			{Label: "GitHub", Value: "github.com/Zachkp", Href: "https://github.com/Zachkp"},
			{Label: "Location", Value: "United States", Href: "#"},
		},
		Layout: []scrollstate.Section{
			{ID: "hero", OffsetTop: 0},
			{ID: "about", OffsetTop: 760},
			{ID: "projects", OffsetTop: 1620},
			{ID: "experience", OffsetTop: 2780},
			{ID: "contact", OffsetTop: 3640},
		},
		Footer: "Built with Go, Gin & HTMX.",
	}
	if err := s.prepare(); err != nil {
		return nil, err
	}
	return s, nil
}

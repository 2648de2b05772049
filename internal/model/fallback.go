// internal/model/fallback.go
package model

import "time"

// DefaultFeaturedProjects is used when no override artifact has been saved yet.
var DefaultFeaturedProjects = []string{
	"portfolio-website",
	"portofolio_hasrinata",
	"ai-chatbot",
	"data-analytics-dashboard",
}

// DefaultFeaturedConfig returns the built-in override list stamped with now.
func DefaultFeaturedConfig(now time.Time) FeaturedConfig {
	names := make([]string, len(DefaultFeaturedProjects))
	copy(names, DefaultFeaturedProjects)
	return FeaturedConfig{FeaturedProjects: names, LastUpdated: now}
}

// FallbackProjects returns the static dataset served when GitHub is unreachable.
// A fresh slice is returned on every call so callers may modify it.
func FallbackProjects() []Project {
	return []Project{
		{
			ID:                  "proj-001",
			Name:                "AI Vision Assistant",
			Description:         "A computer vision application that helps visually impaired users navigate their environment using TensorFlow-powered object detection and audio feedback.",
			Technologies:        []string{"TensorFlow", "Python", "React Native", "Firebase"},
			GitHubURL:           "https://github.com/hasrinataarya/ai-vision-assistant",
			DemoURL:             "https://ai-vision-assistant-demo.vercel.app",
			Stars:               127,
			LastUpdated:         "2 weeks ago",
			Featured:            true,
			RelatedCertificates: []string{"cert-002"},
		},
		{
			ID:                  "proj-002",
			Name:                "E-Commerce Platform",
			Description:         "A full-featured e-commerce solution with product management, shopping cart, payment processing, and admin dashboard built with React and Node.js.",
			Technologies:        []string{"React", "Redux", "Node.js", "Express", "MongoDB", "Stripe"},
			GitHubURL:           "https://github.com/hasrinataarya/ecommerce-platform",
			DemoURL:             "https://ecommerce-platform-demo.vercel.app",
			Stars:               89,
			LastUpdated:         "1 month ago",
			Featured:            true,
			RelatedCertificates: []string{"cert-001", "cert-004"},
		},
		{
			ID:                  "proj-003",
			Name:                "Cloud Task Manager",
			Description:         "A serverless task management application built on AWS Lambda, DynamoDB, and API Gateway with a React frontend for creating, tracking, and completing tasks.",
			Technologies:        []string{"AWS Lambda", "DynamoDB", "API Gateway", "React", "Tailwind CSS"},
			GitHubURL:           "https://github.com/hasrinataarya/cloud-task-manager",
			DemoURL:             "https://cloud-task-manager-demo.vercel.app",
			Stars:               72,
			LastUpdated:         "3 months ago",
			Featured:            true,
			RelatedCertificates: []string{"cert-003"},
		},
		{
			ID:                  "proj-004",
			Name:                "Data Visualization Dashboard",
			Description:         "An interactive dashboard for visualizing complex datasets using D3.js and React, with data processing powered by Python and pandas.",
			Technologies:        []string{"React", "D3.js", "Python", "pandas", "Flask"},
			GitHubURL:           "https://github.com/hasrinataarya/data-viz-dashboard",
			DemoURL:             "https://data-viz-dashboard-demo.vercel.app",
			Stars:               64,
			LastUpdated:         "2 months ago",
			RelatedCertificates: []string{"cert-005"},
		},
		{
			ID:                  "proj-005",
			Name:                "Flutter Weather App",
			Description:         "A weather application built with Flutter that displays current conditions and forecasts for multiple locations with interactive animations.",
			Technologies:        []string{"Flutter", "Dart", "OpenWeather API", "Firebase"},
			GitHubURL:           "https://github.com/hasrinataarya/flutter-weather-app",
			DemoURL:             "https://flutter-weather-app-demo.vercel.app",
			Stars:               51,
			LastUpdated:         "4 months ago",
			RelatedCertificates: []string{"cert-006"},
		},
		{
			ID:                  "proj-006",
			Name:                "Docker Microservices Demo",
			Description:         "A demonstration of microservices architecture using Docker containers, Docker Compose, and a CI/CD pipeline for automated testing and deployment.",
			Technologies:        []string{"Docker", "Node.js", "Express", "GitHub Actions"},
			GitHubURL:           "https://github.com/hasrinataarya/docker-microservices",
			DemoURL:             "https://docker-microservices-demo.vercel.app",
			Stars:               45,
			LastUpdated:         "5 months ago",
			RelatedCertificates: []string{"cert-007"},
		},
		{
			ID:                  "proj-007",
			Name:                "Algorithm Visualizer",
			Description:         "An educational tool for visualizing algorithms and data structures, helping users understand computer science concepts interactively.",
			Technologies:        []string{"JavaScript", "HTML Canvas", "CSS"},
			GitHubURL:           "https://github.com/hasrinataarya/algorithm-visualizer",
			DemoURL:             "https://algorithm-visualizer-demo.vercel.app",
			Stars:               38,
			LastUpdated:         "6 months ago",
			RelatedCertificates: []string{"cert-008"},
		},
	}
}

// EmptyContributionSummary is served when activity cannot be fetched at all.
func EmptyContributionSummary() ContributionSummary {
	return ContributionSummary{
		CommitsByMonth: []MonthlyCommits{},
		RecentCommits:  []RecentCommit{},
	}
}

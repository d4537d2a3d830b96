package catalog

// defaultEntries is the built-in catalog used when no CATALOG_PATH is set.
// Returned fresh on every call so callers cannot alias the backing array.
func defaultEntries() []Entry {
	return []Entry{
		{
			ID:             "app1",
			Name:           "Echo Server",
			Description:    "HTTP echo server for testing",
			URL:            "https://app1.pomerium.local",
			Icon:           "📡",
			Type:           "web",
			Category:       "Testing",
			RequiredGroups: []string{"app1-users", "admin"},
		},
		{
			ID:             "app2",
			Name:           "Static Site",
			Description:    "Nginx static web application",
			URL:            "https://app2.pomerium.local",
			Icon:           "🌐",
			Type:           "web",
			Category:       "Web Apps",
			RequiredGroups: []string{"app2-users", "admin"},
		},
		{
			ID:             "whoami",
			Name:           "Identity Checker",
			Description:    "Check your identity and headers",
			URL:            "https://whoami.pomerium.local",
			Icon:           "🔍",
			Type:           "web",
			Category:       "Testing",
			RequiredGroups: []string{"pomerium-users", "admin"},
		},
		{
			ID:             "filebrowser",
			Name:           "File Browser",
			Description:    "Browse and manage files",
			URL:            "https://files.pomerium.local",
			Icon:           "📁",
			Type:           "web",
			Category:       "Tools",
			RequiredGroups: []string{"admin"},
		},
		{
			ID:             "code-server",
			Name:           "VS Code",
			Description:    "Web-based code editor",
			URL:            "https://code.pomerium.local",
			Icon:           "💻",
			Type:           "web",
			Category:       "Development",
			RequiredGroups: []string{"developers", "admin"},
		},
		{
			ID:             "grafana",
			Name:           "Grafana",
			Description:    "Metrics and dashboards",
			URL:            "https://grafana.pomerium.local",
			Icon:           "📊",
			Type:           "web",
			Category:       "Monitoring",
			RequiredGroups: []string{"monitoring", "admin"},
		},
		{
			ID:             "portainer",
			Name:           "Portainer",
			Description:    "Container management interface",
			URL:            "https://portainer.pomerium.local",
			Icon:           "🐳",
			Type:           "web",
			Category:       "Infrastructure",
			RequiredGroups: []string{"admin"},
		},
		{
			ID:             "uptime-kuma",
			Name:           "Uptime Kuma",
			Description:    "Uptime monitoring",
			URL:            "https://uptime.pomerium.local",
			Icon:           "📈",
			Type:           "web",
			Category:       "Monitoring",
			RequiredGroups: []string{"monitoring", "admin"},
		},
		{
			ID:             "wekan",
			Name:           "Wekan",
			Description:    "Kanban project management",
			URL:            "https://wekan.pomerium.local",
			Icon:           "📋",
			Type:           "web",
			Category:       "Collaboration",
			RequiredGroups: []string{"project-managers", "admin"},
		},
		{
			ID:             "drawio",
			Name:           "Draw.io",
			Description:    "Diagram and flowchart editor",
			URL:            "https://drawio.pomerium.local",
			Icon:           "✏️",
			Type:           "web",
			Category:       "Tools",
			RequiredGroups: []string{"pomerium-users", "admin"},
		},
		{
			ID:             "admin-portal",
			Name:           "Admin Portal",
			Description:    "Administrative tools and dashboards",
			URL:            "https://admin.pomerium.local",
			Icon:           "⚙️",
			Type:           "web",
			Category:       "Administration",
			RequiredGroups: []string{"admin"},
		},
	}
}

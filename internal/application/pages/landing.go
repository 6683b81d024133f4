package pages

// Feature is one selling point on the landing page.
type Feature struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// LandingView is the public front page.
type LandingView struct {
	Headline    string    `json:"headline"`
	Tagline     string    `json:"tagline"`
	Description string    `json:"description"`
	SignInRoute string    `json:"sign_in_route"`
	Features    []Feature `json:"features"`
}

var features = []Feature{
	{Icon: "message-square", Title: "WhatsApp Integration", Description: "Connect directly with customers through the world's most popular messaging app."},
	{Icon: "users", Title: "Lead Management", Description: "Track and nurture leads with powerful contact management tools."},
	{Icon: "bell", Title: "Smart Reminders", Description: "Never miss a follow-up with intelligent reminder systems."},
	{Icon: "zap", Title: "Quick Templates", Description: "Save time with pre-built message templates for common responses."},
	{Icon: "shield", Title: "Secure & Private", Description: "Your data is protected with enterprise-grade security."},
	{Icon: "smartphone", Title: "Mobile Ready", Description: "Access your CRM anywhere with our responsive design."},
}

// Landing renders the front page. It needs no session.
func Landing(authRoute string) LandingView {
	return LandingView{
		Headline:    "WhatsApp-First CRM",
		Tagline:     "Built for Small Businesses",
		Description: "Streamline your customer relationships with a lightweight CRM designed specifically for WhatsApp communication. Perfect for startups and small businesses.",
		SignInRoute: authRoute,
		Features:    append([]Feature(nil), features...),
	}
}

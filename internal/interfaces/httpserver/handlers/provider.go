package handlers

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Auth          *AuthHandler
	Public        *PublicHandler
	Dashboard     *DashboardHandler
	Contacts      *ContactsHandler
	Conversations *ConversationsHandler
	FollowUps     *FollowUpsHandler
	Templates     *TemplatesHandler
}

// NewProvider constructs the handler provider around one workspace.
func NewProvider(ws *Workspace, cookie CookieConfig) *Provider {
	return &Provider{
		Auth:          NewAuthHandler(ws, cookie),
		Public:        NewPublicHandler(ws),
		Dashboard:     NewDashboardHandler(ws),
		Contacts:      NewContactsHandler(ws),
		Conversations: NewConversationsHandler(ws),
		FollowUps:     NewFollowUpsHandler(ws),
		Templates:     NewTemplatesHandler(ws),
	}
}

package domain

// Chatbot is a tenant-owned chatbot as listed by the upstream API. Only the
// fields the dashboard views need are carried here.
type Chatbot struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
}

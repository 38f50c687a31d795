package domain

import "time"

// ChatMessage is a persisted two-party chat message. JSON names follow the
// wire format the web clients already speak.
type ChatMessage struct {
	ID         int64     `json:"_id"`
	ChatRoomID string    `json:"chatRoomId"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Text       string    `json:"text"`
	ImageURLs  []string  `json:"imageUrls"`
	FileURLs   []string  `json:"fileUrls"`
	IsBot      bool      `json:"isBot"`
	IsEdited   bool      `json:"isEdited"`
	SentAt     time.Time `json:"sentAt"`
	ReadBy     []string  `json:"readBy"`
}

// HasContent reports whether the message carries text or at least one attachment.
func (m *ChatMessage) HasContent() bool {
	return m.Text != "" || len(m.ImageURLs) > 0 || len(m.FileURLs) > 0
}

// IsReadBy reports whether userID has acknowledged the message.
func (m *ChatMessage) IsReadBy(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// IsParticipant reports whether userID sent or received the message.
func (m *ChatMessage) IsParticipant(userID string) bool {
	return userID == m.SenderID || userID == m.ReceiverID
}

// MessagePatch is a partial edit. A nil field is left unchanged; a non-nil
// field is applied even when it holds an empty value.
type MessagePatch struct {
	Text      *string   `json:"text"`
	ImageURLs *[]string `json:"imageUrls"`
	FileURLs  *[]string `json:"fileUrls"`
}

// Apply copies the present fields of p onto m.
func (p MessagePatch) Apply(m *ChatMessage) {
	if p.Text != nil {
		m.Text = *p.Text
	}
	if p.ImageURLs != nil {
		m.ImageURLs = append([]string{}, (*p.ImageURLs)...)
	}
	if p.FileURLs != nil {
		m.FileURLs = append([]string{}, (*p.FileURLs)...)
	}
}

// Contact is a counterpart a user has exchanged messages with.
type Contact struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Asset is a file stored on the external asset host.
type Asset struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

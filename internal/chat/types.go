package chat

// Role tags who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn 对话中的一条带角色的消息，创建后不再修改
// Turn is one role-tagged message of a conversation; never mutated after creation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserTurn returns a user turn carrying content.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// AssistantTurn returns an assistant turn carrying content.
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

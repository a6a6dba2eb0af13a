package agent

import "encoding/json"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MediaTypePNG is the only image format the agent produces. Screenshots are
// always captured as PNG and advertised as such to the model.
const MediaTypePNG = "image/png"

// ContentBlock is a tagged union over the block types that can appear in a
// conversation turn. Exactly one of the fields is non-nil.
type ContentBlock struct {
	OfText       *TextBlock       `json:"text,omitempty"`
	OfImage      *ImageBlock      `json:"image,omitempty"`
	OfToolUse    *ToolUseBlock    `json:"toolUse,omitempty"`
	OfToolResult *ToolResultBlock `json:"toolResult,omitempty"`
}

// TextBlock carries plain text.
type TextBlock struct {
	Text string `json:"text"`
}

// ImageBlock carries an encoded image payload. MediaType is always
// MediaTypePNG in this system.
type ImageBlock struct {
	MediaType string `json:"mediaType"`
	Data      []byte `json:"data"`
}

// ToolUseBlock is a model request to invoke a tool. Input is the raw,
// tool-specific input object; it may be malformed, so it is decoded lazily by
// the action translator.
type ToolUseBlock struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// ToolResultBlock answers a ToolUseBlock with the same ID.
type ToolResultBlock struct {
	ToolUseID string         `json:"toolUseId"`
	Content   []ContentBlock `json:"content"`
	IsError   bool           `json:"isError,omitempty"`
}

func NewTextBlock(text string) ContentBlock {
	return ContentBlock{OfText: &TextBlock{Text: text}}
}

// NewImageBlock wraps a PNG screenshot in a content block.
func NewImageBlock(png []byte) ContentBlock {
	return ContentBlock{OfImage: &ImageBlock{MediaType: MediaTypePNG, Data: png}}
}

func NewToolUseBlock(id string, name string, input json.RawMessage) ContentBlock {
	return ContentBlock{OfToolUse: &ToolUseBlock{ID: id, Name: name, Input: input}}
}

func NewToolResultBlock(toolUseID string, content ...ContentBlock) ContentBlock {
	return ContentBlock{OfToolResult: &ToolResultBlock{ToolUseID: toolUseID, Content: content}}
}

// NewErrorToolResultBlock answers a tool use with an error message, giving the
// model the opportunity to correct its request on the next turn.
func NewErrorToolResultBlock(toolUseID string, message string) ContentBlock {
	return ContentBlock{OfToolResult: &ToolResultBlock{
		ToolUseID: toolUseID,
		Content:   []ContentBlock{NewTextBlock(message)},
		IsError:   true,
	}}
}

// Turn is one message in a conversation: a role and its ordered content.
type Turn struct {
	Role    Role           `json:"role"`
	Content []ContentBlock `json:"content"`
}

// Conversation is the ordered transcript of one agent run. It always starts
// with a user turn, and an assistant turn containing tool uses is always
// immediately followed by a user turn containing the corresponding tool
// results. The conversation is exclusively owned by the agent loop for the
// lifetime of a run; observers only ever see snapshots.
type Conversation struct {
	turns []Turn
}

// NewConversation builds a conversation from existing turns, copying them.
// Used to reconstruct a transcript outside the agent loop.
func NewConversation(turns ...Turn) *Conversation {
	c := &Conversation{}
	for _, turn := range turns {
		content := make([]ContentBlock, len(turn.Content))
		copy(content, turn.Content)
		c.turns = append(c.turns, Turn{Role: turn.Role, Content: content})
	}
	return c
}

func (c *Conversation) appendUser(content ...ContentBlock) {
	c.turns = append(c.turns, Turn{Role: RoleUser, Content: content})
}

func (c *Conversation) appendAssistant(content ...ContentBlock) {
	c.turns = append(c.turns, Turn{Role: RoleAssistant, Content: content})
}

// Len returns the number of turns accumulated so far.
func (c *Conversation) Len() int {
	return len(c.turns)
}

// Turns returns a snapshot of the transcript. The returned slice is a copy;
// mutating it does not affect the conversation.
func (c *Conversation) Turns() []Turn {
	snapshot := make([]Turn, len(c.turns))
	for i, turn := range c.turns {
		content := make([]ContentBlock, len(turn.Content))
		copy(content, turn.Content)
		snapshot[i] = Turn{Role: turn.Role, Content: content}
	}
	return snapshot
}

package ai

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/heatseekerbot/heatseeker-agent/internal/agent"
)

// buildParams converts the agent conversation into a Messages API request.
func (c *Client) buildParams(conversation *agent.Conversation, schema agent.ToolSchema) (anthropic.BetaMessageNewParams, error) {
	turns := conversation.Turns()
	messages := make([]anthropic.BetaMessageParam, 0, len(turns))
	for _, turn := range turns {
		message, err := convertTurn(turn)
		if err != nil {
			return anthropic.BetaMessageNewParams{}, err
		}
		messages = append(messages, message)
	}

	return anthropic.BetaMessageNewParams{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxOutputTokens,
		System: []anthropic.BetaTextBlockParam{
			{Text: c.systemPrompt},
		},
		Messages: messages,
		Tools: []anthropic.BetaToolUnionParam{
			{
				OfComputerUseTool20250124: &anthropic.BetaToolComputerUse20250124Param{
					DisplayWidthPx:  int64(schema.DisplayWidthPx),
					DisplayHeightPx: int64(schema.DisplayHeightPx),
					DisplayNumber:   anthropic.Int(int64(schema.DisplayNumber)),
				},
			},
		},
		Betas: c.cfg.Betas,
	}, nil
}

func convertTurn(turn agent.Turn) (anthropic.BetaMessageParam, error) {
	content := make([]anthropic.BetaContentBlockParamUnion, 0, len(turn.Content))
	for _, block := range turn.Content {
		converted, err := convertBlock(block)
		if err != nil {
			return anthropic.BetaMessageParam{}, err
		}
		content = append(content, converted)
	}

	role := anthropic.BetaMessageParamRoleUser
	if turn.Role == agent.RoleAssistant {
		role = anthropic.BetaMessageParamRoleAssistant
	}
	return anthropic.BetaMessageParam{Role: role, Content: content}, nil
}

func convertBlock(block agent.ContentBlock) (anthropic.BetaContentBlockParamUnion, error) {
	switch {
	case block.OfText != nil:
		return anthropic.NewBetaTextBlock(block.OfText.Text), nil

	case block.OfImage != nil:
		encoded := base64.StdEncoding.EncodeToString(block.OfImage.Data)
		return anthropic.NewBetaImageBlock(anthropic.BetaBase64ImageSourceParam{
			Data:      encoded,
			MediaType: anthropic.BetaBase64ImageSourceMediaType(block.OfImage.MediaType),
		}), nil

	case block.OfToolUse != nil:
		return anthropic.BetaContentBlockParamUnion{
			OfToolUse: &anthropic.BetaToolUseBlockParam{
				ID:    block.OfToolUse.ID,
				Name:  block.OfToolUse.Name,
				Input: block.OfToolUse.Input,
			},
		}, nil

	case block.OfToolResult != nil:
		return convertToolResult(block.OfToolResult)

	default:
		return anthropic.BetaContentBlockParamUnion{}, fmt.Errorf("empty content block")
	}
}

func convertToolResult(result *agent.ToolResultBlock) (anthropic.BetaContentBlockParamUnion, error) {
	content := make([]anthropic.BetaToolResultBlockParamContentUnion, 0, len(result.Content))
	for _, block := range result.Content {
		switch {
		case block.OfText != nil:
			content = append(content, anthropic.BetaToolResultBlockParamContentUnion{
				OfText: &anthropic.BetaTextBlockParam{Text: block.OfText.Text},
			})
		case block.OfImage != nil:
			encoded := base64.StdEncoding.EncodeToString(block.OfImage.Data)
			content = append(content, anthropic.BetaToolResultBlockParamContentUnion{
				OfImage: &anthropic.BetaImageBlockParam{
					Source: anthropic.BetaImageBlockParamSourceUnion{
						OfBase64: &anthropic.BetaBase64ImageSourceParam{
							Data:      encoded,
							MediaType: anthropic.BetaBase64ImageSourceMediaTypeImagePNG,
						},
					},
				},
			})
		default:
			return anthropic.BetaContentBlockParamUnion{}, fmt.Errorf("unsupported tool result content block")
		}
	}

	return anthropic.BetaContentBlockParamUnion{
		OfToolResult: &anthropic.BetaToolResultBlockParam{
			ToolUseID: result.ToolUseID,
			Content:   content,
			IsError:   anthropic.Bool(result.IsError),
		},
	}, nil
}

// decodeContent converts the assistant reply into the agent's content model.
// Thinking blocks are logged and dropped; they never feed back into the
// conversation.
func decodeContent(content []anthropic.BetaContentBlockUnion) []agent.ContentBlock {
	var blocks []agent.ContentBlock
	for _, contentBlock := range content {
		switch block := contentBlock.AsAny().(type) {
		case anthropic.BetaTextBlock:
			log.Print("    <text> ", block.Text)
			blocks = append(blocks, agent.NewTextBlock(block.Text))
		case anthropic.BetaToolUseBlock:
			log.Print("    <tool use> ", block.Name)
			blocks = append(blocks, agent.NewToolUseBlock(block.ID, block.Name, json.RawMessage(block.JSON.Input.Raw())))
		case anthropic.BetaThinkingBlock:
			log.Print("    <thinking> ", block.Thinking)
		case anthropic.BetaRedactedThinkingBlock:
			log.Print("    <redacted thinking>")
		default:
			log.Printf("    <unknown block %T>", block)
		}
	}
	return blocks
}

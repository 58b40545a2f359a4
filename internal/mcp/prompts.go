package mcp

import (
	"encoding/json"
	"fmt"
)

// PromptRegistry lists the prompt templates this server offers.
var PromptRegistry = []Prompt{
	{
		Name:        "analyze_ticket",
		Description: "Analyze a ticket: summarize the issue, customer sentiment, and suggested next steps.",
		Arguments: []PromptArgument{
			{Name: "ticket_id", Description: "The ticket ID to analyze", Required: true},
		},
	},
	{
		Name:        "draft_response",
		Description: "Draft a customer-facing reply to the latest message on a ticket.",
		Arguments: []PromptArgument{
			{Name: "ticket_id", Description: "The ticket ID to respond to", Required: true},
			{Name: "tone", Description: "Desired tone (formal, friendly, apologetic)", Required: false},
		},
	},
	{
		Name:        "escalation_summary",
		Description: "Summarize all currently escalated tickets for a handover or standup.",
		Arguments: []PromptArgument{
			{Name: "group", Description: "Limit the summary to one group", Required: false},
		},
	},
}

func (s *Server) handlePromptsList(req Request) Response {
	return SuccessResponse(req.ID, PromptsListResult{
		Prompts: PromptRegistry,
	})
}

func (s *Server) handlePromptsGet(req Request) Response {
	var params PromptGetParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return ErrorResponse(req.ID, ErrCodeInvalidParams, "Invalid params: "+err.Error())
	}

	result, err := renderPrompt(params.Name, params.Arguments)
	if err != nil {
		return ErrorResponse(req.ID, ErrCodeInvalidParams, err.Error())
	}
	return SuccessResponse(req.ID, result)
}

func renderPrompt(name string, args map[string]string) (*PromptGetResult, error) {
	switch name {
	case "analyze_ticket":
		ticketID, ok := args["ticket_id"]
		if !ok || ticketID == "" {
			return nil, fmt.Errorf("prompt %s requires ticket_id", name)
		}
		text := fmt.Sprintf(
			"Fetch ticket %s with the get_ticket tool (include articles) and analyze it. "+
				"Cover: a one-paragraph summary of the issue, the customer's sentiment, "+
				"how long the ticket has been open, whether it is escalated, and the "+
				"recommended next step for the assigned agent.", ticketID)
		return promptResult("Structured analysis of one ticket", text), nil

	case "draft_response":
		ticketID, ok := args["ticket_id"]
		if !ok || ticketID == "" {
			return nil, fmt.Errorf("prompt %s requires ticket_id", name)
		}
		tone := args["tone"]
		if tone == "" {
			tone = "professional and helpful"
		}
		text := fmt.Sprintf(
			"Fetch ticket %s with the get_ticket tool (include articles) and draft a reply "+
				"to the customer's latest message. Use a %s tone, address every open "+
				"question in the thread, and do not promise anything the articles do not "+
				"support. Return only the reply body.", ticketID, tone)
		return promptResult("Draft customer reply", text), nil

	case "escalation_summary":
		scope := "across all groups"
		if g := args["group"]; g != "" {
			scope = fmt.Sprintf("in the %q group", g)
		}
		text := fmt.Sprintf(
			"Use the search_tickets and get_ticket_stats tools to find escalated tickets %s. "+
				"For each, list the ticket number, title, owner, and how far past its "+
				"escalation deadline it is. Order by severity and finish with a one-line "+
				"overall assessment.", scope)
		return promptResult("Escalated tickets handover summary", text), nil

	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func promptResult(description, text string) *PromptGetResult {
	return &PromptGetResult{
		Description: description,
		Messages: []PromptMessage{
			{Role: "user", Content: TextContent(text)},
		},
	}
}

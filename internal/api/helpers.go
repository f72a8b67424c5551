package api

import (
	"strings"
)

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message" doc:"Result message"`
}

// MessageOutput wraps a message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

func message(msg string) *MessageOutput {
	return &MessageOutput{Body: MessageResponse{Message: msg}}
}

// splitIDs parses a comma-separated ID list, dropping blanks.
func splitIDs(value string) []string {
	var ids []string
	for id := range strings.SplitSeq(value, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

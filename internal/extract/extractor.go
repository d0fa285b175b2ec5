// Package extract scrapes a web page to markdown and asks a language model
// to pull structured fields out of it.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// DefaultFields is the extraction schema used when none is given.
var DefaultFields = []string{"Festival", "Year"}

const systemPrompt = `You are an intelligent text extraction and conversion assistant. Your task is to extract structured information from the given text and convert it into a pure JSON format. The JSON should contain only the structured data extracted from the text, with no additional commentary, explanations, or extraneous information. Please process the following text and provide the output in pure JSON format with no words before or after the JSON:`

// Completer is a chat completion backend.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// DecodeError is returned when the model reply is not valid JSON.
type DecodeError struct {
	Payload string
	Err     error
}

func (e *DecodeError) Error() string {
	return "the formatted data could not be decoded into JSON: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

type Extractor struct {
	LLM    Completer
	Logger *slog.Logger
}

func userPrompt(text string, fields []string) string {
	return fmt.Sprintf("Extract the following information from the provided text:\nPage content:\n\n%s\n\nInformation to extract: [%s]",
		text, strings.Join(fields, ", "))
}

// Extract returns the decoded JSON value the model produced for text.
func (e *Extractor) Extract(ctx context.Context, text string, fields []string) (any, error) {
	reply, err := e.LLM.Complete(ctx, systemPrompt, userPrompt(text, fields))
	if err != nil {
		return nil, err
	}
	e.Logger.Info("Formatted data received from API", "payload", reply)

	var parsed any
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		e.Logger.Error("JSON decoding error", "err", err, "payload", reply)
		return nil, &DecodeError{Payload: reply, Err: err}
	}
	return parsed, nil
}

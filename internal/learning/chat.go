package learning

import (
	"fmt"
	"strings"

	"studymate/internal/domain"
	"studymate/internal/providers/generation"
)

// ChatContextLimit is how many prior exchanges of a session are replayed.
const ChatContextLimit = 4

// ChatTitleLimit bounds a session title derived from its first question.
const ChatTitleLimit = 40

// ImageChatQuestion is stored in place of a question for image-only turns.
const ImageChatQuestion = "[Image Uploaded]"

const chatTemplate = `
You are a student doubt-solving assistant.

RULES:
- Answer only the current question
- Be clear and concise
- Exam-oriented explanations
- Use previous context ONLY if relevant

PREVIOUS CONTEXT:
%s
QUESTION:
%s

ANSWER:
`

const imageChatTemplate = `
You are an AI Tutor.

The student has uploaded an image. Its text reads:
%s

INSTRUCTIONS:
- Carefully analyze the content
- Understand diagrams, text or questions
- Explain clearly and step-by-step
- Exam oriented explanation
- Simple student friendly language

PREVIOUS CONTEXT (if relevant):
%s
ANSWER:
`

// ChatPrompt builds a doubt-solving call over the prior exchanges.
func ChatPrompt(question string, prior []Exchange) generation.Call {
	return generation.Call{
		Prompt:      fmt.Sprintf(chatTemplate, RenderExchanges(prior), strings.TrimSpace(question)),
		MaxTokens:   300,
		Temperature: 0.15,
	}
}

// ImageChatPrompt builds a call over text extracted from an uploaded image.
func ImageChatPrompt(extracted string, prior []Exchange) generation.Call {
	return generation.Call{
		Prompt:      fmt.Sprintf(imageChatTemplate, strings.TrimSpace(extracted), RenderExchanges(prior)),
		MaxTokens:   400,
		Temperature: 0.2,
	}
}

// ChatTitle derives a session title from its first question.
func ChatTitle(question string) string {
	title := strings.TrimSpace(strings.ReplaceAll(question, "\n", " "))
	if title == "" {
		return domain.DefaultChatTitle
	}
	if r := []rune(title); len(r) > ChatTitleLimit {
		return string(r[:ChatTitleLimit]) + "..."
	}
	return title
}

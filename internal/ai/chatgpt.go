// Package ai wraps the OpenAI chat API for on-demand grammar explanations.
// Responses are cached on disk so repeat questions cost nothing.
package ai

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/kapp/pkg/models"
)

// ChatGPT represents a client for the OpenAI ChatGPT API
type ChatGPT struct {
	apiKey      string
	apiURL      string
	model       string
	maxTokens   int
	temperature float64
	cacheDir    string
	httpClient  *http.Client
}

// New creates a new ChatGPT client. cacheDir may be empty to disable the
// response cache.
func New(apiKey, model, cacheDir string) (*ChatGPT, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is not set")
	}
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %v", err)
		}
	}

	return &ChatGPT{
		apiKey:      apiKey,
		apiURL:      "https://api.openai.com/v1/chat/completions",
		model:       model,
		maxTokens:   300,
		temperature: 0.7,
		cacheDir:    cacheDir,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Message represents a message in the ChatGPT conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the ChatGPT API
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse represents a response from the ChatGPT API
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ExplainGrammar explains why the expected answer to an exercise is
// correct, contrasting it with what the learner submitted
func (c *ChatGPT) ExplainGrammar(exercise *models.Exercise, userAnswer string) (string, error) {
	prompt := fmt.Sprintf(
		"A learner of Korean answered the exercise below.\n\nQuestion: %s\nKorean text: %s\nCorrect answer: %s\nLearner's answer: %s\n\nExplain in two or three short sentences why the correct answer is right",
		exercise.Question, exercise.KoreanText, exercise.CorrectAnswer, userAnswer,
	)
	if userAnswer == "" {
		prompt += " and what grammar point the exercise practices"
	} else {
		prompt += " and, if the learner's answer differs, what went wrong"
	}
	prompt += ". Keep it beginner friendly."

	messages := []Message{
		{Role: "system", Content: "You are a Korean language tutor for English speakers. You give short, clear grammar explanations without jargon."},
		{Role: "user", Content: prompt},
	}

	return c.complete(messages, c.maxTokens, c.temperature)
}

// ExampleSentence generates a fresh example sentence for a glossary entry
func (c *ChatGPT) ExampleSentence(item *models.VocabularyItem) (string, error) {
	prompt := fmt.Sprintf(
		"Write one short, practical Korean sentence that naturally uses '%s' (%s, \"%s\"). Give the sentence, its romanization and its English translation on three lines.",
		item.Korean, item.Romanization, item.English,
	)

	messages := []Message{
		{Role: "system", Content: "You are a Korean language tutor for English speakers. You create simple example sentences that help beginners remember new words."},
		{Role: "user", Content: prompt},
	}

	return c.complete(messages, c.maxTokens, 0.8)
}

// complete sends one chat completion request, consulting the disk cache
// first
func (c *ChatGPT) complete(messages []Message, maxTokens int, temperature float64) (string, error) {
	key := c.cacheKey(messages)
	if cached, ok := c.cachedResponse(key); ok {
		return cached, nil
	}

	request := ChatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequest("POST", c.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %v", err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	answer := strings.TrimSpace(response.Choices[0].Message.Content)
	c.storeResponse(key, answer)
	return answer, nil
}

// cacheKey hashes the model and full prompt so any wording change misses
// the cache
func (c *ChatGPT) cacheKey(messages []Message) string {
	h := sha1.New()
	h.Write([]byte(c.model))
	for _, m := range messages {
		h.Write([]byte(m.Role))
		h.Write([]byte{0})
		h.Write([]byte(m.Content))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *ChatGPT) cachedResponse(key string) (string, bool) {
	if c.cacheDir == "" {
		return "", false
	}
	data, err := os.ReadFile(filepath.Join(c.cacheDir, key+".txt"))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (c *ChatGPT) storeResponse(key, answer string) {
	if c.cacheDir == "" {
		return
	}
	// Cache misses are harmless, so write errors are ignored
	_ = os.WriteFile(filepath.Join(c.cacheDir, key+".txt"), []byte(answer), 0644)
}

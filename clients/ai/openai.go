package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

// Классы ошибок пайплайна генерации. Вызывающий код различает их через errors.Is.
var (
	// ErrNoAPIKey ключ API не задан; запрос к сети не выполняется
	ErrNoAPIKey = errors.New("OPENAI_API_KEY не задан")
	// ErrTransport HTTP запрос к API не удался (таймаут, обрыв, не-2xx)
	ErrTransport = errors.New("ошибка запроса к OpenAI API")
	// ErrMalformedResponse ответ модели не содержит разбираемого JSON
	ErrMalformedResponse = errors.New("не удалось разобрать JSON из ответа модели")
)

// Client клиент для работы с OpenAI chat completions API
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Message сообщение для чата
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat формат ответа модели
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatRequest запрос к API
type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ChatResponse ответ от API
type ChatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewClient создаёт новый клиент OpenAI
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetModel устанавливает модель
func (c *Client) SetModel(model string) {
	if model != "" {
		c.model = model
	}
}

// SetBaseURL устанавливает адрес API (для тестов и совместимых провайдеров)
func (c *Client) SetBaseURL(url string) {
	if url != "" {
		c.baseURL = url
	}
}

// SetHTTPClient подменяет HTTP клиент (для тестов)
func (c *Client) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.httpClient = hc
	}
}

// HasAPIKey сообщает, настроен ли ключ API
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// Chat отправляет сообщения и возвращает текст ответа модели.
// При jsonMode модель обязана вернуть единственный JSON объект.
func (c *Client) Chat(messages []Message, temperature float64, jsonMode bool) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	req := ChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   4096,
	}
	if jsonMode {
		req.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	httpReq, err := http.NewRequest("POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: чтение ответа: %v", ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: статус %d: %s", ErrTransport, resp.StatusCode, truncate(string(body), 200))
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrTransport, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: пустой список choices", ErrMalformedResponse)
	}

	return chatResp.Choices[0].Message.Content, nil
}

// truncate обрезает строку до maxLen рун, не разрывая многобайтовые символы
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}

package llm

import (
	"testing"
)

func TestNewService_DeepSeekDefaults(t *testing.T) {
	cfg := &Config{
		Provider: "deepseek",
		Model:    "deepseek-chat",
		APIKey:   "test-key",
	}

	svc, err := NewService(cfg)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if svc == nil {
		t.Fatal("NewService() returned nil service")
	}

	s, ok := svc.(*service)
	if !ok {
		t.Fatal("NewService() did not return *service type")
	}
	if s.maxTokens != 800 {
		t.Errorf("maxTokens = %v, want default 800", s.maxTokens)
	}
	if s.timeout != 60 {
		t.Errorf("timeout = %v, want default 60", s.timeout)
	}
}

func TestNewService_ExplicitConfig(t *testing.T) {
	cfg := &Config{
		Provider:    "openai",
		Model:       "gpt-4o",
		APIKey:      "test-key",
		BaseURL:     "https://api.openai.com/v1",
		MaxTokens:   2048,
		Temperature: 0.7,
		Timeout:     30,
	}

	svc, err := NewService(cfg)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	s := svc.(*service)
	if s.maxTokens != 2048 {
		t.Errorf("maxTokens = %v, want 2048", s.maxTokens)
	}
	if s.temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", s.temperature)
	}
	if s.timeout != 30 {
		t.Errorf("timeout = %v, want 30", s.timeout)
	}
}

func TestFormatMessages(t *testing.T) {
	history := []Message{
		UserMessage("先前的问题"),
		AssistantMessage("先前的回答"),
	}

	messages := FormatMessages("系统提示", "当前问题", history)

	if len(messages) != 4 {
		t.Fatalf("len(messages) = %d, want 4", len(messages))
	}
	if messages[0].Role != "system" || messages[0].Content != "系统提示" {
		t.Errorf("messages[0] = %+v, want system prompt first", messages[0])
	}
	if messages[3].Role != "user" || messages[3].Content != "当前问题" {
		t.Errorf("messages[3] = %+v, want user message last", messages[3])
	}
}

func TestFormatMessagesWithoutSystemPrompt(t *testing.T) {
	messages := FormatMessages("", "问题", nil)
	if len(messages) != 1 {
		t.Fatalf("len(messages) = %d, want 1", len(messages))
	}
	if messages[0].Role != "user" {
		t.Errorf("messages[0].Role = %q, want user", messages[0].Role)
	}
}

func TestConvertMessages(t *testing.T) {
	converted := convertMessages([]Message{
		{Role: "system", Content: "s"},
		{Role: "user", Content: "u"},
		{Role: "assistant", Content: "a"},
		{Role: "tool", Content: "unknown role defaults to user"},
	})

	if len(converted) != 4 {
		t.Fatalf("len(converted) = %d, want 4", len(converted))
	}
	if converted[0].Role != "system" {
		t.Errorf("converted[0].Role = %q, want system", converted[0].Role)
	}
	if converted[3].Role != "user" {
		t.Errorf("converted[3].Role = %q, want user (default)", converted[3].Role)
	}
}

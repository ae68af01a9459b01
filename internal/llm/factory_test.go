package llm

import "testing"

func TestNewChatClient(t *testing.T) {
	tests := []struct {
		name         string
		settings     Settings
		wantProvider string
		wantErr      bool
	}{
		{name: "local", settings: Settings{Provider: ProviderLocal, BaseURL: "http://localhost:8081/", Model: "qwen"}, wantProvider: ProviderLocal},
		{name: "openai", settings: Settings{Provider: ProviderOpenAI, APIKey: "sk", Model: "gpt-4o-mini"}, wantProvider: ProviderOpenAI},
		{name: "openai compatible url", settings: Settings{Provider: ProviderOpenAI, BaseURL: "http://proxy/v1", Model: "m"}, wantProvider: ProviderOpenAI},
		{name: "local without url", settings: Settings{Provider: ProviderLocal, Model: "qwen"}, wantErr: true},
		{name: "openai without key", settings: Settings{Provider: ProviderOpenAI, Model: "m"}, wantErr: true},
		{name: "missing model", settings: Settings{Provider: ProviderLocal, BaseURL: "http://x"}, wantErr: true},
		{name: "unknown provider", settings: Settings{Provider: "carrier-pigeon", Model: "m"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewChatClient(tt.settings)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewChatClient() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewChatClient() error = %v", err)
			}
			if client.ProviderName() != tt.wantProvider {
				t.Errorf("NewChatClient() provider = %s, want %s", client.ProviderName(), tt.wantProvider)
			}
			if client.ModelName() != tt.settings.Model {
				t.Errorf("NewChatClient() model = %s, want %s", client.ModelName(), tt.settings.Model)
			}
		})
	}

	local, _ := NewChatClient(Settings{Provider: ProviderLocal, BaseURL: "http://localhost:8081/", Model: "qwen"})
	if got := local.(*Client).BaseURL; got != "http://localhost:8081" {
		t.Errorf("NewChatClient() kept trailing slash: %s", got)
	}
}

func TestNewEmbedder(t *testing.T) {
	if e, err := NewEmbedder(Settings{Provider: ProviderLocal, BaseURL: "http://localhost:8080", Model: "nomic"}); err != nil {
		t.Errorf("NewEmbedder(local) error = %v", err)
	} else if _, ok := e.(*EmbeddingsClient); !ok {
		t.Errorf("NewEmbedder(local) = %T, want *EmbeddingsClient", e)
	}
	if e, err := NewEmbedder(Settings{Provider: ProviderOpenAI, APIKey: "sk", Model: "text-embedding-3-small"}); err != nil {
		t.Errorf("NewEmbedder(openai) error = %v", err)
	} else if _, ok := e.(*OpenAIEmbedder); !ok {
		t.Errorf("NewEmbedder(openai) = %T, want *OpenAIEmbedder", e)
	}
	if _, err := NewEmbedder(Settings{Provider: "other", Model: "m"}); err == nil {
		t.Error("NewEmbedder() accepted an unknown provider")
	}
	if _, err := NewEmbedder(Settings{Provider: ProviderLocal, BaseURL: "http://x"}); err == nil {
		t.Error("NewEmbedder() accepted a missing model")
	}
}

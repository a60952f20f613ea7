package provider

import (
	"strings"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "ollama needs nothing",
			cfg:  Config{Backend: BackendOllama},
		},
		{
			name:    "openai requires api key",
			cfg:     Config{Backend: BackendOpenAI},
			wantErr: "OPENAI_API_KEY",
		},
		{
			name: "openai with api key",
			cfg:  Config{Backend: BackendOpenAI, APIKey: "sk-test"},
		},
		{
			name:    "azure requires endpoint",
			cfg:     Config{Backend: BackendAzure, APIKey: "k", AzureDeployment: "d"},
			wantErr: "AZURE_OPENAI_ENDPOINT",
		},
		{
			name:    "azure requires deployment",
			cfg:     Config{Backend: BackendAzure, APIKey: "k", BaseURL: "https://x.openai.azure.com"},
			wantErr: "AZURE_OPENAI_DEPLOYMENT",
		},
		{
			name: "azure complete",
			cfg:  Config{Backend: BackendAzure, APIKey: "k", BaseURL: "https://x.openai.azure.com", AzureDeployment: "gpt-4.1"},
		},
		{
			name:    "ark requires model",
			cfg:     Config{Backend: BackendArk, APIKey: "k"},
			wantErr: "ARK_MODEL",
		},
		{
			name:    "gemini requires api key",
			cfg:     Config{Backend: BackendGemini},
			wantErr: "GOOGLE_API_KEY",
		},
		{
			name:    "unknown backend",
			cfg:     Config{Backend: "watsonx"},
			wantErr: "unknown backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

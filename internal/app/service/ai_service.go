package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"google.golang.org/genai"

	"github.com/guialocal/guialocal-backend/pkg/logger"
	"github.com/guialocal/guialocal-backend/pkg/util"
)

// ChatApology is returned whenever the assistant cannot answer.
const ChatApology = "Desculpe, não consegui processar sua pergunta agora. Tente novamente em instantes."

const (
	maxToolRounds        = 3
	maxConversationTurns = 20
)

var (
	ErrEmptyMessage     = errors.New("mensagem vazia")
	ErrAssistantOffline = errors.New("assistente não configurado")
	errToolLoop         = errors.New("model kept calling tools without answering")
)

// ChatTurn is one message of a conversation. Role is "user" or "model".
type ChatTurn struct {
	Role string
	Text string
}

const (
	TurnUser  = "user"
	TurnModel = "model"
)

// ToolHandler executes a function call requested by the model and returns
// the JSON-able response handed back to it.
type ToolHandler func(ctx context.Context, name string, args map[string]any) (map[string]any, error)

// LLMClient runs one assistant turn, resolving tool calls through handler.
type LLMClient interface {
	Chat(ctx context.Context, system string, history []ChatTurn, message string, tools []*genai.FunctionDeclaration, handler ToolHandler) (string, error)
}

// GeminiClient implements LLMClient on the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrAssistantOffline
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (g *GeminiClient) Chat(ctx context.Context, system string, history []ChatTurn, message string, tools []*genai.FunctionDeclaration, handler ToolHandler) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		var role genai.Role = genai.RoleUser
		if turn.Role == TurnModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.4),
	}
	if len(tools) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: tools}}
	}

	for round := 0; round < maxToolRounds; round++ {
		resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
		if err != nil {
			return "", fmt.Errorf("gemini generate content: %w", err)
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			return strings.TrimSpace(resp.Text()), nil
		}
		if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			contents = append(contents, resp.Candidates[0].Content)
		}

		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			out, err := handler(ctx, call.Name, call.Args)
			if err != nil {
				out = map[string]any{"error": err.Error()}
			}
			parts = append(parts, genai.NewPartFromFunctionResponse(call.Name, out))
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}
	return "", errToolLoop
}

// ConversationStore keeps recent turns per session in memory, expiring idle
// sessions after ttl.
type ConversationStore struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

func NewConversationStore(ttl time.Duration) *ConversationStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ConversationStore{cache: gocache.New(ttl, ttl*2)}
}

func (s *ConversationStore) History(sessionID string) []ChatTurn {
	if sessionID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.cache.Get(sessionID); ok {
		turns := v.([]ChatTurn)
		return append([]ChatTurn(nil), turns...)
	}
	return nil
}

// Append adds turns and keeps only the most recent ones.
func (s *ConversationStore) Append(sessionID string, turns ...ChatTurn) {
	if sessionID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var history []ChatTurn
	if v, ok := s.cache.Get(sessionID); ok {
		history = v.([]ChatTurn)
	}
	history = append(append([]ChatTurn(nil), history...), turns...)
	if len(history) > maxConversationTurns {
		history = history[len(history)-maxConversationTurns:]
	}
	s.cache.SetDefault(sessionID, history)
}

type ChatRequest struct {
	Message   string   `json:"message" binding:"required"`
	SessionID string   `json:"sessionId"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
}

// ChatResponse always carries a results slice, empty when the assistant did
// not search.
type ChatResponse struct {
	Text    string       `json:"text"`
	Results []ToolResult `json:"results"`
}

// AIService is the conversational assistant. It never fails: any error is
// logged and answered with ChatApology.
type AIService interface {
	Chat(ctx context.Context, req ChatRequest) ChatResponse
}

type aiService struct {
	llm           LLMClient
	tool          *SearchTool
	conversations *ConversationStore
	clock         Clock
	city          string
}

// NewAIService wires the assistant. llm may be nil when no API key is
// configured.
func NewAIService(llm LLMClient, tool *SearchTool, conversations *ConversationStore, clock Clock, city string) AIService {
	return &aiService{
		llm:           llm,
		tool:          tool,
		conversations: conversations,
		clock:         clock,
		city:          city,
	}
}

func (s *aiService) Chat(ctx context.Context, req ChatRequest) ChatResponse {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return apology(ErrEmptyMessage)
	}
	if s.llm == nil {
		return apology(ErrAssistantOffline)
	}

	var userLocation *util.GeoPoint
	if req.Lat != nil && req.Lng != nil {
		userLocation = &util.GeoPoint{Lat: *req.Lat, Lng: *req.Lng}
	}

	var (
		mu      sync.Mutex
		results []ToolResult
	)
	handler := func(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
		if name != SearchToolName {
			return nil, fmt.Errorf("unknown tool %q", name)
		}
		found, err := s.tool.Execute(ctx, ParseToolArgs(args), userLocation)
		if err != nil {
			return nil, err
		}
		mu.Lock()
		results = found
		mu.Unlock()
		return map[string]any{"results": found, "count": len(found)}, nil
	}

	history := s.conversations.History(req.SessionID)
	text, err := s.llm.Chat(ctx, s.systemPrompt(), history, message,
		[]*genai.FunctionDeclaration{s.tool.Declaration()}, handler)
	if err != nil || text == "" {
		if err == nil {
			err = errors.New("empty assistant reply")
		}
		logger.Error("Assistant chat failed", err, map[string]interface{}{
			"session_id": req.SessionID,
		})
		return apology(err)
	}

	s.conversations.Append(req.SessionID,
		ChatTurn{Role: TurnUser, Text: message},
		ChatTurn{Role: TurnModel, Text: text},
	)

	if results == nil {
		results = []ToolResult{}
	}
	return ChatResponse{Text: text, Results: results}
}

func (s *aiService) systemPrompt() string {
	now := s.clock.Now()
	var sb strings.Builder
	sb.WriteString("Você é o assistente do GuiaLocal, um guia de comércios e serviços locais")
	if s.city != "" {
		sb.WriteString(" de ")
		sb.WriteString(s.city)
	}
	sb.WriteString(".\n")
	sb.WriteString(fmt.Sprintf("Agora são %s de %s.\n", now.Format("15:04"), now.Format("02/01/2006")))
	sb.WriteString("Use a ferramenta search_businesses sempre que o usuário procurar um estabelecimento, produto ou serviço.\n")
	sb.WriteString("Quando o pedido sugerir uma categoria, informe inferredCategory. Se o usuário quiser algo aberto agora, use filterOpen.\n")
	sb.WriteString("Recomende apenas estabelecimentos retornados pela ferramenta e nunca invente telefones, endereços ou horários.\n")
	sb.WriteString("Destaque os estabelecimentos marcados com ⭐ primeiro.\n")
	sb.WriteString("Responda em português do Brasil, de forma breve e simpática.")
	return sb.String()
}

func apology(err error) ChatResponse {
	logger.Debug("Answering with apology", map[string]interface{}{
		"reason": err.Error(),
	})
	return ChatResponse{Text: ChatApology, Results: []ToolResult{}}
}

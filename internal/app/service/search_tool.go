package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/guialocal/guialocal-backend/internal/app/repository"
	"github.com/guialocal/guialocal-backend/pkg/logger"
	"github.com/guialocal/guialocal-backend/pkg/util"
)

const (
	SearchToolName = "search_businesses"

	boostMarker        = "⭐ "
	toolDescriptionLen = 120
	statusOpen         = "Aberto agora"
	statusClosed       = "Fechado"
	hoursUnknown       = "Horário não informado"
)

// ToolArgs are the arguments the model passes to search_businesses.
type ToolArgs struct {
	Query            string
	InferredCategory string
	FilterOpen       bool
}

// ParseToolArgs reads loosely typed function-call arguments.
func ParseToolArgs(args map[string]any) ToolArgs {
	var out ToolArgs
	if v, ok := args["query"].(string); ok {
		out.Query = strings.TrimSpace(v)
	}
	if v, ok := args["inferredCategory"].(string); ok {
		out.InferredCategory = strings.TrimSpace(v)
	}
	switch v := args["filterOpen"].(type) {
	case bool:
		out.FilterOpen = v
	case string:
		out.FilterOpen = strings.EqualFold(v, "true")
	}
	return out
}

// ToolResult is the compact business entry handed back to the model and to
// the chat client.
type ToolResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Hours       string `json:"hours"`
	Distance    string `json:"distance,omitempty"`
	Contact     string `json:"contact,omitempty"`
	Rating      string `json:"rating,omitempty"`
}

// SearchTool exposes directory search to the assistant.
type SearchTool struct {
	repo  repository.BusinessRepository
	clock Clock
}

func NewSearchTool(repo repository.BusinessRepository, clock Clock) *SearchTool {
	return &SearchTool{repo: repo, clock: clock}
}

// Declaration is the function declaration sent to the model.
func (t *SearchTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        SearchToolName,
		Description: "Busca estabelecimentos locais do guia por nome, categoria ou descrição. Retorna no máximo 5 resultados ordenados por destaque e distância.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"query": {
					Type:        genai.TypeString,
					Description: "Termo de busca, por exemplo 'pizza' ou 'farmácia'.",
				},
				"inferredCategory": {
					Type:        genai.TypeString,
					Description: "Categoria provável do pedido, usada quando o termo não encontra nada.",
				},
				"filterOpen": {
					Type:        genai.TypeBoolean,
					Description: "Quando verdadeiro, retorna apenas estabelecimentos abertos agora.",
				},
			},
			Required: []string{"query"},
		},
	}
}

// Execute searches the directory. userLocation comes from the client, not
// from the model.
func (t *SearchTool) Execute(ctx context.Context, args ToolArgs, userLocation *util.GeoPoint) ([]ToolResult, error) {
	corpus, err := t.repo.FindAll(ctx)
	if err != nil {
		logger.Error("Search tool failed to read businesses", err)
		return nil, err
	}

	now := t.clock.Now()
	ranked := SearchBusinesses(corpus, SearchQuery{
		Query:            args.Query,
		FilterOpen:       args.FilterOpen,
		UserLocation:     userLocation,
		InferredCategory: args.InferredCategory,
		Limit:            ConversationalLimit,
	}, now)

	results := make([]ToolResult, 0, len(ranked))
	for _, r := range ranked {
		results = append(results, toToolResult(r, now))
	}

	logger.Debug("Search tool executed", map[string]interface{}{
		"query":    args.Query,
		"category": args.InferredCategory,
		"results":  len(results),
	})
	return results, nil
}

func toToolResult(r RankedBusiness, now time.Time) ToolResult {
	b := r.Business
	name := b.Name
	if b.Marketing.Boost.LiveAt(now) {
		name = boostMarker + name
	}

	result := ToolResult{
		ID:          b.ID,
		Name:        name,
		Category:    b.Category,
		Description: util.TruncateText(b.Description, toolDescriptionLen, "..."),
		Status:      statusClosed,
		Hours:       hoursUnknown,
	}
	if r.IsOpen {
		result.Status = statusOpen
	}
	if b.OpenTime != "" && b.CloseTime != "" {
		result.Hours = b.OpenTime + " - " + b.CloseTime
	}
	if r.DistanceKm != nil {
		result.Distance = util.FormatDistance(*r.DistanceKm)
	}
	if b.ReviewCount > 0 {
		result.Rating = fmt.Sprintf("%.1f (%d)", b.Rating, b.ReviewCount)
	}
	switch {
	case b.Whatsapp != "":
		result.Contact = util.WhatsAppLink(b.Whatsapp)
	case b.Phone != "":
		result.Contact = b.Phone
	}
	return result
}

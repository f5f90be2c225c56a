package usecase

import (
	"context"
	"encoding/json"

	cacheport "zapcrm/internal/infrastructure/cache/port"
	repository "zapcrm/internal/pkg/crm/persistence/repository/port"
	"zapcrm/pkg/apperrors"
)

// ToolKind is the closed set of operations exposed to the AI agent. Dispatch
// goes through a typed lookup table rather than ad hoc string switching, so an
// unknown name fails before any argument parsing.
type ToolKind string

const (
	ToolSearchClients  ToolKind = "search_clients"
	ToolCreateClient   ToolKind = "create_client"
	ToolListProducts   ToolKind = "list_products"
	ToolCreateOrder    ToolKind = "create_order"
	ToolLogInteraction ToolKind = "log_interaction"
)

// toolHandler decodes the raw arguments into the tool's own input type and
// runs it. Decode failures surface as invalid-argument errors.
type toolHandler func(ctx context.Context, args json.RawMessage) (any, error)

// ToolRegistry maps each ToolKind to its typed handler.
type ToolRegistry struct {
	handlers map[ToolKind]toolHandler
}

// NewToolRegistry wires every tool against the CRM repository. Cache may be
// nil; only the product listing uses it.
func NewToolRegistry(repo repository.CrmRepository, cache cacheport.Cache) *ToolRegistry {
	searchClients := NewSearchClientsUseCase(repo)
	createClient := NewCreateClientUseCase(repo)
	listProducts := NewListProductsUseCase(repo, cache)
	createOrder := NewCreateOrderUseCase(repo)
	logInteraction := NewLogInteractionUseCase(repo)

	return &ToolRegistry{handlers: map[ToolKind]toolHandler{
		ToolSearchClients: typedHandler(func(ctx context.Context, in SearchClientsInput) (any, error) {
			return searchClients.Execute(ctx, in)
		}),
		ToolCreateClient: typedHandler(func(ctx context.Context, in CreateClientInput) (any, error) {
			return createClient.Execute(ctx, in)
		}),
		ToolListProducts: typedHandler(func(ctx context.Context, in ListProductsInput) (any, error) {
			return listProducts.Execute(ctx, in)
		}),
		ToolCreateOrder: typedHandler(func(ctx context.Context, in CreateOrderInput) (any, error) {
			return createOrder.Execute(ctx, in)
		}),
		ToolLogInteraction: typedHandler(func(ctx context.Context, in LogInteractionInput) (any, error) {
			return logInteraction.Execute(ctx, in)
		}),
	}}
}

// Kinds lists the registered tool names, for discovery responses.
func (r *ToolRegistry) Kinds() []ToolKind {
	out := make([]ToolKind, 0, len(r.handlers))
	for k := range r.handlers {
		out = append(out, k)
	}
	return out
}

// Dispatch runs the named tool with the given raw arguments.
func (r *ToolRegistry) Dispatch(ctx context.Context, kind ToolKind, args json.RawMessage) (any, error) {
	h, ok := r.handlers[kind]
	if !ok {
		return nil, apperrors.InvalidArg("unknown tool: " + string(kind))
	}
	return h(ctx, args)
}

func typedHandler[T any](run func(ctx context.Context, in T) (any, error)) toolHandler {
	return func(ctx context.Context, args json.RawMessage) (any, error) {
		var in T
		if len(args) > 0 {
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, apperrors.InvalidArg("malformed tool arguments: " + err.Error())
			}
		}
		return run(ctx, in)
	}
}

// internal/assistant/agent/manager.go
package agent

import (
	"context"
	"sync"

	"restaurant-ai-service/internal/assistant/tools"
	"restaurant-ai-service/internal/common/config"
	"restaurant-ai-service/internal/common/logger"
	"restaurant-ai-service/internal/llm"
	"restaurant-ai-service/internal/models"
)

// RestaurantSource loads restaurant profiles for agent construction.
type RestaurantSource interface {
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
}

// Manager hands out one agent per restaurant, created lazily on the first
// message for that restaurant.
type Manager struct {
	mu     sync.RWMutex
	agents map[string]*Agent

	llm    llm.Client
	source RestaurantSource
	cfg    config.AgentConfig
	logger logger.Logger
}

func NewManager(client llm.Client, source RestaurantSource, cfg config.AgentConfig, log logger.Logger) *Manager {
	return &Manager{
		agents: make(map[string]*Agent),
		llm:    client,
		source: source,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "agent-manager"}),
	}
}

// AgentFor returns the agent serving the given restaurant, building it from
// the stored profile on first use.
func (m *Manager) AgentFor(ctx context.Context, restaurantID string) (*Agent, error) {
	m.mu.RLock()
	agent, ok := m.agents[restaurantID]
	m.mu.RUnlock()
	if ok {
		return agent, nil
	}

	restaurant, err := m.source.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.agents[restaurantID]; ok {
		return existing, nil
	}

	agent = New(m.llm, restaurant, tools.NewDefaultRegistry(restaurant, m.logger), m.cfg, m.logger)
	m.agents[restaurantID] = agent
	m.logger.Info("agent created", map[string]interface{}{
		"restaurantId": restaurantID,
		"restaurant":   restaurant.Name,
	})
	return agent, nil
}

// Evict drops the cached agent so the next message rebuilds it from the
// current profile.
func (m *Manager) Evict(restaurantID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.agents, restaurantID)
}

// Size reports how many restaurant agents are live.
func (m *Manager) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.agents)
}

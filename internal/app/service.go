package app

import (
	"context"
	"sync"

	"github.com/joacominatel/snowclient"
)

// Service coordinates application-level operations between the UI and a
// Snowflake session. Calls are serialized: a Disconnect issued while a query
// runs waits for the query to return.
type Service struct {
	mu     sync.Mutex
	opts   []snowclient.Option
	client *snowclient.Client
	label  string
}

// NewService creates a new application service. opts are passed to every
// client it creates.
func NewService(opts ...snowclient.Option) *Service {
	return &Service{opts: opts}
}

// Connect opens a session for cfg, replacing any session already open.
func (s *Service) Connect(ctx context.Context, cfg snowclient.Config, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.disconnect()

	client := snowclient.NewFromConfig(cfg, s.opts...)
	if err := client.Connect(ctx); err != nil {
		return &ErrConnection{Target: label, Cause: err}
	}
	s.client = client
	s.label = label
	return nil
}

// Disconnect closes the current session, if any.
func (s *Service) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disconnect()
}

func (s *Service) disconnect() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect()
	s.client = nil
	s.label = ""
	return err
}

// Connected reports whether a session is open.
func (s *Service) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client != nil && s.client.Connected()
}

// Label names the current session for display.
func (s *Service) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

// Config returns the settings of the current session.
func (s *Service) Config() snowclient.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return snowclient.Config{}
	}
	return s.client.Config()
}

// ExecuteQuery runs a SQL query and returns the results.
func (s *Service) ExecuteQuery(ctx context.Context, query string, params map[string]any, init *snowclient.SessionContext) (*snowclient.QueryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil, &ErrQuery{Query: query, Cause: snowclient.ErrNotConnected}
	}
	result, err := s.client.ExecuteQuery(ctx, query, params, init)
	if err != nil {
		return nil, &ErrQuery{Query: query, Cause: err}
	}
	return result, nil
}

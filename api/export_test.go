package api

import "context"

// SetContext swaps the context handlers generate under.
func (s *Server) SetContext(ctx context.Context) {
	s.ctx = ctx
}

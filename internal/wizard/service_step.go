package wizard

import (
	"strings"

	"directory-console/internal/common/validation"
	"directory-console/internal/models"
)

// ServiceStep edits the services list.
type ServiceStep struct {
	draft *Draft
}

// Add appends a service. The title is required.
func (s *ServiceStep) Add(title, description string) validation.FieldErrors {
	if strings.TrimSpace(title) == "" {
		return validation.FieldErrors{"title": "Service title is required"}
	}
	s.draft.Services = append(s.draft.Services, models.Service{Title: title, Description: description})
	return nil
}

// Remove deletes the service at i; out-of-range is a no-op.
func (s *ServiceStep) Remove(i int) {
	if i < 0 || i >= len(s.draft.Services) {
		return
	}
	s.draft.Services = append(s.draft.Services[:i:i], s.draft.Services[i+1:]...)
}

// Edit takes the service at i out of the list so it can be re-entered.
func (s *ServiceStep) Edit(i int) (models.Service, bool) {
	if i < 0 || i >= len(s.draft.Services) {
		return models.Service{}, false
	}
	svc := s.draft.Services[i]
	s.Remove(i)
	return svc, true
}

func (s *ServiceStep) Services() []models.Service {
	return s.draft.Services
}

// CanSubmit is false until at least one service exists.
func (s *ServiceStep) CanSubmit() bool {
	return len(s.draft.Services) > 0
}

package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/charter/internal/runtime"
	"github.com/aretw0/charter/pkg/domain"
	steps "github.com/aretw0/charter/pkg/validator"
)

// ValidateCatalog lints the boats before the bot goes live: every photo must
// exist under photosDir, every captain must pass the wizard's own name and
// phone rules, and the wizard must reach completion for every boat under flow.
func ValidateCatalog(boats []domain.Boat, flow domain.Flow, photosDir string) error {
	var errors []string

	for _, boat := range boats {
		if strings.TrimSpace(boat.Name) == "" {
			errors = append(errors, "boat with empty name")
			continue
		}
		errors = append(errors, checkPhoto(boat, photosDir)...)
		if !runtime.BoatTokenFits(boat.Name) {
			errors = append(errors, tokenError(boat.Name))
		}

		for i, c := range boat.Captains {
			if _, err := steps.CaptainName(c.Name); err != nil {
				errors = append(errors, fmt.Sprintf("%s: captain #%d has invalid name %q", boat.Name, i+1, c.Name))
			}
			if _, err := steps.Phone(c.Phone); err != nil {
				errors = append(errors, fmt.Sprintf("%s: captain %q has invalid phone %q", boat.Name, c.Name, c.Phone))
			}
		}

		if _, err := Walk(flow, boat); err != nil {
			errors = append(errors, fmt.Sprintf("%s: %v", boat.Name, err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

// CheckButtonTokens fails when a boat name is too long for its button tokens.
// Telegram rejects the whole keyboard in that case.
func CheckButtonTokens(boats []domain.Boat) error {
	var errors []string
	for _, boat := range boats {
		if !runtime.BoatTokenFits(boat.Name) {
			errors = append(errors, tokenError(boat.Name))
		}
	}
	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

func tokenError(name string) string {
	return fmt.Sprintf("%s: name is %d bytes, button tokens allow at most %d",
		name, len(name), runtime.MaxTokenBytes-len(runtime.TokenBoatPreview))
}

func checkPhoto(boat domain.Boat, photosDir string) []string {
	if boat.Photo == "" {
		return []string{fmt.Sprintf("%s: no photo, the card cannot be rendered", boat.Name)}
	}
	path := boat.Photo
	if !filepath.IsAbs(path) && photosDir != "" {
		path = filepath.Join(photosDir, path)
	}
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return []string{fmt.Sprintf("%s: photo %s: %v", boat.Name, path, err)}
	case info.IsDir():
		return []string{fmt.Sprintf("%s: photo %s is a directory", boat.Name, path)}
	}
	return nil
}

// Walk returns the questions a user answers for boat, in order, ending with
// domain.StepComplete. It fails when a step would be asked twice.
func Walk(flow domain.Flow, boat domain.Boat) ([]domain.Step, error) {
	draft := runtime.Prefill(flow, boat)
	path := []domain.Step{domain.StepBoatSelection}
	visited := map[domain.Step]bool{domain.StepBoatSelection: true}

	current := domain.StepBoatSelection
	for current != domain.StepComplete {
		next := runtime.NextStep(flow, current, draft, boat)
		if visited[next] {
			return path, fmt.Errorf("step %s is reached twice after %s", next, current)
		}
		visited[next] = true
		path = append(path, next)
		answer(flow, next, &draft, boat)
		current = next
	}
	return path, nil
}

// answer fills the field collected by step with a placeholder.
func answer(flow domain.Flow, step domain.Step, d *domain.Draft, boat domain.Boat) {
	zero := 0
	switch step {
	case domain.StepCaptainSelection:
		d.CaptainName, d.CaptainPhone = boat.Captains[0].Name, boat.Captains[0].Phone
	case domain.StepCaptainName:
		d.CaptainName = "-"
	case domain.StepCaptainPhone:
		d.CaptainPhone = "-"
	case domain.StepHoursSelection:
		d.Hours = "1"
	case domain.StepDateSelection:
		d.Date = "-"
	case domain.StepTimeSelection:
		// The button picker only chooses the hour here.
		if flow.TimeInput == domain.TimeFreeform {
			d.Time = "-"
		}
	case domain.StepMinuteSelection:
		d.Time = "-"
	case domain.StepPierEntry:
		d.Pier = "-"
	case domain.StepGuestCount:
		d.Guests = &zero
	case domain.StepClientName:
		d.ClientName = "-"
	case domain.StepRemainingPayment:
		d.RemainingPayment = &zero
	}
}

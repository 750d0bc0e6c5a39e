package validator_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/charter/internal/validator"
	"github.com/aretw0/charter/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ivan = domain.Captain{Name: "Иван Петров", Phone: "+79991234567"}
	oleg = domain.Captain{Name: "Олег Смирнов", Phone: "89997654321"}
)

func TestWalk(t *testing.T) {
	freeform := domain.Flow{
		PierSource:    domain.PierPrompted,
		CaptainSource: domain.CaptainFreeform,
		TimeInput:     domain.TimeFreeform,
		DateInput:     domain.DateFreeform,
		HoursMode:     domain.HoursRange,
	}

	tests := []struct {
		name string
		flow domain.Flow
		boat domain.Boat
		want []domain.Step
	}{
		{
			name: "captain list and catalog pier",
			flow: domain.DefaultFlow(),
			boat: domain.Boat{Name: "Bounty", Pier: "Северный", Captains: []domain.Captain{ivan, oleg}},
			want: []domain.Step{
				domain.StepBoatSelection, domain.StepCaptainSelection, domain.StepHoursSelection,
				domain.StepDateSelection, domain.StepTimeSelection, domain.StepMinuteSelection,
				domain.StepGuestCount, domain.StepClientName, domain.StepRemainingPayment, domain.StepComplete,
			},
		},
		{
			name: "single captain, no pier",
			flow: domain.DefaultFlow(),
			boat: domain.Boat{Name: "Aurora", Captains: []domain.Captain{ivan}},
			want: []domain.Step{
				domain.StepBoatSelection, domain.StepHoursSelection, domain.StepDateSelection,
				domain.StepTimeSelection, domain.StepMinuteSelection, domain.StepPierEntry,
				domain.StepGuestCount, domain.StepClientName, domain.StepRemainingPayment, domain.StepComplete,
			},
		},
		{
			name: "everything typed",
			flow: freeform,
			boat: domain.Boat{Name: "Bounty", Pier: "Северный", Captains: []domain.Captain{ivan}},
			want: []domain.Step{
				domain.StepBoatSelection, domain.StepCaptainName, domain.StepCaptainPhone,
				domain.StepHoursSelection, domain.StepDateSelection, domain.StepTimeSelection,
				domain.StepPierEntry, domain.StepGuestCount, domain.StepClientName,
				domain.StepRemainingPayment, domain.StepComplete,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validator.Walk(tt.flow, tt.boat)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateCatalog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bounty.jpg"), []byte("jpg"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder"), 0755))

	t.Run("valid", func(t *testing.T) {
		boats := []domain.Boat{{Name: "Bounty", Pier: "Северный", Photo: "bounty.jpg", Captains: []domain.Captain{ivan, oleg}}}
		assert.NoError(t, validator.ValidateCatalog(boats, domain.DefaultFlow(), dir))
	})

	t.Run("absolute photo path", func(t *testing.T) {
		boats := []domain.Boat{{Name: "Bounty", Photo: filepath.Join(dir, "bounty.jpg")}}
		assert.NoError(t, validator.ValidateCatalog(boats, domain.DefaultFlow(), "elsewhere"))
	})

	t.Run("every problem is reported", func(t *testing.T) {
		boats := []domain.Boat{
			{Name: "Aurora", Photo: "aurora.jpg"},
			{Name: "Folder", Photo: "folder"},
			{Name: "Nophoto"},
			{Name: "Crew", Photo: "bounty.jpg", Captains: []domain.Captain{{Name: "R2-D2", Phone: "+1555"}}},
			{Name: " "},
		}
		err := validator.ValidateCatalog(boats, domain.DefaultFlow(), dir)
		require.Error(t, err)

		msg := err.Error()
		assert.Contains(t, msg, "found 6 errors")
		assert.Contains(t, msg, "Aurora: photo")
		assert.Contains(t, msg, "is a directory")
		assert.Contains(t, msg, "Nophoto: no photo")
		assert.Contains(t, msg, `invalid name "R2-D2"`)
		assert.Contains(t, msg, `invalid phone "+1555"`)
		assert.Contains(t, msg, "boat with empty name")
	})

	t.Run("name too long for button tokens", func(t *testing.T) {
		long := strings.Repeat("Я", 27)
		boats := []domain.Boat{{Name: long, Photo: "bounty.jpg", Captains: []domain.Captain{ivan}}}
		err := validator.ValidateCatalog(boats, domain.DefaultFlow(), dir)
		assert.ErrorContains(t, err, "button tokens allow at most 52")
	})
}

func TestCheckButtonTokens(t *testing.T) {
	fits := strings.Repeat("Я", 26)
	assert.NoError(t, validator.CheckButtonTokens([]domain.Boat{{Name: "Bounty"}, {Name: fits}}))

	err := validator.CheckButtonTokens([]domain.Boat{{Name: fits + "a"}, {Name: "Bounty"}})
	assert.ErrorContains(t, err, "found 1 errors")
}

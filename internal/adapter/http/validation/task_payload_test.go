package validation

import (
	"testing"
	"time"

	"workops/internal/adapter/http/dto"
	"workops/internal/core/domain"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestBuildCreateTaskInput_TrimsTitleAndDefaultsStatus(t *testing.T) {
	input, err := BuildCreateTaskInput(dto.CreateTaskRequest{Title: "  Fix login  "})
	require.NoError(t, err)
	require.Equal(t, "Fix login", input.Title)
	require.Equal(t, domain.TaskStatusPending, input.Status)
	require.Nil(t, input.DueDate)
}

func TestBuildCreateTaskInput_BlankTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := BuildCreateTaskInput(dto.CreateTaskRequest{Title: title})
		require.ErrorIs(t, err, domain.ErrBlankTaskTitle)
	}
}

func TestBuildCreateTaskInput_DueDateLayouts(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2026-04-01T09:30:00Z", time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)},
		{"2026-04-01T11:30:00+02:00", time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)},
		{"2026-04-01T09:30:00", time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)},
		{"2026-04-01T09:30", time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)},
		{"2026-04-01", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		input, err := BuildCreateTaskInput(dto.CreateTaskRequest{Title: "x", DueDate: strPtr(tc.raw)})
		require.NoError(t, err, tc.raw)
		require.NotNil(t, input.DueDate, tc.raw)
		require.True(t, tc.want.Equal(*input.DueDate), "raw %s got %s", tc.raw, input.DueDate)
	}
}

func TestBuildCreateTaskInput_UnparseableDueDate(t *testing.T) {
	_, err := BuildCreateTaskInput(dto.CreateTaskRequest{Title: "x", DueDate: strPtr("next tuesday")})
	require.ErrorIs(t, err, ErrInvalidTaskPayload)
}

func TestBuildUpdateTaskInput_AbsentFieldsStayNil(t *testing.T) {
	input, err := BuildUpdateTaskInput(dto.UpdateTaskRequest{Status: strPtr("Done")})
	require.NoError(t, err)
	require.Nil(t, input.Title)
	require.Nil(t, input.Description)
	require.Nil(t, input.DueDate)
	require.Nil(t, input.AssignedToSub)
	require.NotNil(t, input.Status)
	require.Equal(t, domain.TaskStatusDone, *input.Status)
}

func TestBuildUpdateTaskInput_PresentBlankTitleRejected(t *testing.T) {
	_, err := BuildUpdateTaskInput(dto.UpdateTaskRequest{Title: strPtr("   ")})
	require.ErrorIs(t, err, domain.ErrBlankTaskTitle)
}

func TestBuildUpdateTaskInput_TrimsTitle(t *testing.T) {
	input, err := BuildUpdateTaskInput(dto.UpdateTaskRequest{Title: strPtr(" Renamed ")})
	require.NoError(t, err)
	require.NotNil(t, input.Title)
	require.Equal(t, "Renamed", *input.Title)
}

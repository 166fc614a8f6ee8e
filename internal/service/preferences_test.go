package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/crewboard/internal/domain/auth"
	"github.com/target/crewboard/internal/domain/model"
	"github.com/target/crewboard/internal/domain/prefs"
	"github.com/target/crewboard/internal/domain/visibility"
	apperrors "github.com/target/crewboard/internal/errors"
	"github.com/target/crewboard/internal/mocks"
	"go.uber.org/mock/gomock"
)

func boolPtr(v bool) *bool { return &v }

var (
	adminSession    = domainauth.Session{ID: "s-admin", UserID: "alice", Role: domainauth.RoleAdmin}
	managerSession  = domainauth.Session{ID: "s-manager", UserID: "bob", Role: domainauth.RoleManager}
	employeeSession = domainauth.Session{ID: "s-employee", UserID: "carol", Role: domainauth.RoleEmployee}
)

func newPreferenceService(themes *mockThemeRepo, views *memoryViewModes) *PreferenceService {
	return NewPreferenceService(PreferenceServiceOptions{Themes: themes, ViewModes: views})
}

func TestPreferenceService_GetDefaults(t *testing.T) {
	svc := newPreferenceService(&mockThemeRepo{}, newMemoryViewModes())

	snap, err := svc.Get(context.Background(), adminSession)
	require.NoError(t, err)
	assert.Equal(t, prefs.Default(), snap.Preference)
	assert.Equal(t, visibility.Compute(prefs.Default()), snap.Visibility)
}

func TestPreferenceService_GetCombinesThemeAndViewMode(t *testing.T) {
	themes := &mockThemeRepo{getFunc: func(_ context.Context, userID string) (*model.UserPreference, error) {
		return &model.UserPreference{UserID: userID, Theme: prefs.ThemeDark}, nil
	}}
	views := newMemoryViewModes()
	views.entries[adminSession.ID] = prefs.ViewPreference{ViewAsManager: true}

	snap, err := newPreferenceService(themes, views).Get(context.Background(), adminSession)
	require.NoError(t, err)
	assert.Equal(t, prefs.ViewPreference{Theme: prefs.ThemeDark, ViewAsManager: true}, snap.Preference)
	assert.False(t, snap.Visibility.Visible(visibility.RegionAdminFields))
	assert.True(t, snap.Visibility.Visible(visibility.RegionAccountManagerFields))
}

func TestPreferenceService_GetDropsManagerViewForNonAdmins(t *testing.T) {
	views := newMemoryViewModes()
	views.entries[managerSession.ID] = prefs.ViewPreference{ViewAsManager: true}

	snap, err := newPreferenceService(&mockThemeRepo{}, views).Get(context.Background(), managerSession)
	require.NoError(t, err)
	assert.False(t, snap.Preference.ViewAsManager)
	assert.Equal(t, visibility.ForRole(domainauth.RoleManager, prefs.Default()), snap.Visibility)
}

func TestPreferenceService_GetErrors(t *testing.T) {
	boom := errors.New("db down")
	themes := &mockThemeRepo{getFunc: func(context.Context, string) (*model.UserPreference, error) { return nil, boom }}
	_, err := newPreferenceService(themes, newMemoryViewModes()).Get(context.Background(), adminSession)
	require.ErrorIs(t, err, boom)

	views := newMemoryViewModes()
	views.getErr = boom
	_, err = newPreferenceService(&mockThemeRepo{}, views).Get(context.Background(), adminSession)
	require.ErrorIs(t, err, boom)
}

func TestPreferenceService_SaveTheme(t *testing.T) {
	var saved prefs.Theme
	themes := &mockThemeRepo{upsertFunc: func(_ context.Context, userID string, theme prefs.Theme) (*model.UserPreference, error) {
		assert.Equal(t, "alice", userID)
		saved = theme
		return &model.UserPreference{UserID: userID, Theme: theme}, nil
	}}
	svc := newPreferenceService(themes, newMemoryViewModes())

	got, err := svc.SaveTheme(context.Background(), adminSession, "Dark")
	require.NoError(t, err)
	assert.Equal(t, prefs.ThemeDark, got)
	assert.Equal(t, prefs.ThemeDark, saved)

	_, err = svc.SaveTheme(context.Background(), adminSession, "sepia")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "theme", apperrors.GetField(err))
}

func TestPreferenceService_SaveViewMode_MutualExclusion(t *testing.T) {
	views := newMemoryViewModes()
	svc := newPreferenceService(&mockThemeRepo{}, views)
	ctx := context.Background()

	p, err := svc.SaveViewMode(ctx, adminSession, prefs.ViewModeUpdate{ViewAsManager: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, p.ViewAsManager)

	p, err = svc.SaveViewMode(ctx, adminSession, prefs.ViewModeUpdate{ViewAsEmployee: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, p.ViewAsEmployee)
	assert.False(t, p.ViewAsManager)
	assert.Equal(t, prefs.ViewPreference{ViewAsEmployee: true}, views.entries[adminSession.ID])

	p, err = svc.SaveViewMode(ctx, adminSession, prefs.ViewModeUpdate{
		ViewAsEmployee: boolPtr(true),
		ViewAsManager:  boolPtr(true),
	})
	require.NoError(t, err)
	assert.True(t, p.ViewAsEmployee)
	assert.False(t, p.ViewAsManager)
}

func TestPreferenceService_SaveViewMode_ManagerOnlyForAdmins(t *testing.T) {
	views := newMemoryViewModes()
	svc := newPreferenceService(&mockThemeRepo{}, views)
	ctx := context.Background()

	p, err := svc.SaveViewMode(ctx, managerSession, prefs.ViewModeUpdate{ViewAsManager: boolPtr(true)})
	require.NoError(t, err)
	assert.False(t, p.ViewAsManager)
	assert.Zero(t, views.saves, "ignored request must not write")

	p, err = svc.SaveViewMode(ctx, employeeSession, prefs.ViewModeUpdate{
		ViewAsEmployee: boolPtr(false),
		ViewAsManager:  boolPtr(true),
	})
	require.NoError(t, err)
	assert.False(t, p.ViewAsManager)
	assert.False(t, p.ViewAsEmployee)

	p, err = svc.SaveViewMode(ctx, managerSession, prefs.ViewModeUpdate{ViewAsEmployee: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, p.ViewAsEmployee)
}

func TestPreferenceService_SaveViewMode_Errors(t *testing.T) {
	svc := newPreferenceService(&mockThemeRepo{}, newMemoryViewModes())
	_, err := svc.SaveViewMode(context.Background(), adminSession, prefs.ViewModeUpdate{})
	assert.True(t, apperrors.IsValidation(err))

	views := newMemoryViewModes()
	views.saveErr = errors.New("redis down")
	_, err = newPreferenceService(&mockThemeRepo{}, views).
		SaveViewMode(context.Background(), adminSession, prefs.ViewModeUpdate{ViewAsEmployee: boolPtr(true)})
	require.ErrorIs(t, err, views.saveErr)
}

func TestPreferenceService_SaveViewMode_WritesMergedFlags(t *testing.T) {
	ctrl := gomock.NewController(t)
	views := mocks.NewMockViewModeStore(ctrl)
	ctx := context.Background()

	gomock.InOrder(
		views.EXPECT().Get(ctx, adminSession.ID).Return(prefs.ViewPreference{ViewAsEmployee: true}, nil),
		views.EXPECT().Save(ctx, adminSession.ID, prefs.ViewPreference{Theme: prefs.ThemeLight, ViewAsManager: true}).Return(nil),
	)

	svc := NewPreferenceService(PreferenceServiceOptions{Themes: &mockThemeRepo{}, ViewModes: views})
	p, err := svc.SaveViewMode(ctx, adminSession, prefs.ViewModeUpdate{ViewAsManager: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, p.ViewAsManager)
	assert.False(t, p.ViewAsEmployee)
}

func TestPreferenceService_SaveViewMode_IgnoredManagerRequestSkipsWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	views := mocks.NewMockViewModeStore(ctrl)
	ctx := context.Background()

	views.EXPECT().Get(ctx, employeeSession.ID).Return(prefs.ViewPreference{}, nil)
	views.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	svc := NewPreferenceService(PreferenceServiceOptions{Themes: &mockThemeRepo{}, ViewModes: views})
	p, err := svc.SaveViewMode(ctx, employeeSession, prefs.ViewModeUpdate{ViewAsManager: boolPtr(true)})
	require.NoError(t, err)
	assert.False(t, p.ViewAsManager)
}

func TestPreferenceService_EmitsChangeMetrics(t *testing.T) {
	sink := &tagSink{}
	svc := NewPreferenceService(PreferenceServiceOptions{
		Themes:    &mockThemeRepo{},
		ViewModes: newMemoryViewModes(),
		Metrics:   sink,
	})
	ctx := context.Background()

	_, err := svc.SaveTheme(ctx, adminSession, "dark")
	require.NoError(t, err)
	_, err = svc.SaveTheme(ctx, adminSession, "sepia")
	require.Error(t, err)
	_, err = svc.SaveViewMode(ctx, adminSession, prefs.ViewModeUpdate{ViewAsEmployee: boolPtr(true)})
	require.NoError(t, err)
	_, err = svc.SaveViewMode(ctx, employeeSession, prefs.ViewModeUpdate{ViewAsManager: boolPtr(true)})
	require.NoError(t, err)

	require.Len(t, sink.counts, 4)
	assert.Equal(t, map[string]string{"kind": "theme", "value": "dark", "result": "success"}, sink.counts[0])
	assert.Equal(t, "error", sink.counts[1]["result"])
	assert.Equal(t, "validation", sink.counts[1]["error_class"])
	assert.Equal(t, map[string]string{"kind": "view_mode", "value": "employee", "result": "success"}, sink.counts[2])
	assert.Equal(t, "noop", sink.counts[3]["result"])
}

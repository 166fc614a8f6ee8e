// Package mocks provides gomock implementations of the client ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	syncer := mocks.NewMockPreferenceSyncer(ctrl)
//	syncer.EXPECT().SaveTheme(gomock.Any(), prefs.ThemeDark).Return(nil)
package mocks

// Generate mocks for the preference sync ports from internal/ports.
// This creates MockPreferenceSyncer (SaveTheme, SaveViewMode) and MockReloader (Reload).
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=prefs_mock.go github.com/target/crewboard/internal/ports PreferenceSyncer,Reloader

// Generate mock for ViewModeStore interface from internal/ports.
// This creates MockViewModeStore with methods Get, Save, Delete.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=view_mode_store_mock.go github.com/target/crewboard/internal/ports ViewModeStore

//go:build gomock || generate

package quicpacker

//go:generate sh -c "go run go.uber.org/mock/mockgen -typed -build_flags=\"-tags=gomock\" -package quicpacker -self_package github.com/quicforge/quicpacker -destination mock_session_delegate_test.go github.com/quicforge/quicpacker SessionDelegate"
type MockableSessionDelegate = SessionDelegate

//go:generate sh -c "go run go.uber.org/mock/mockgen -typed -build_flags=\"-tags=gomock\" -package quicpacker -self_package github.com/quicforge/quicpacker -destination mock_aead_sealer_test.go github.com/quicforge/quicpacker AEADSealer"
type MockableAEADSealer = AEADSealer

//go:generate sh -c "go run go.uber.org/mock/mockgen -typed -build_flags=\"-tags=gomock\" -package quicpacker -self_package github.com/quicforge/quicpacker -destination mock_random_source_test.go github.com/quicforge/quicpacker RandomSource"
type MockableRandomSource = RandomSource

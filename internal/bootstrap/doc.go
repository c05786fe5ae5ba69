// Package bootstrap drives `passman init`: it establishes the keypair, the
// vault repository and an optional remote, then installs shell completion.
//
// # States
//
//	NoRepo ──accept init──▶ RepoCreated ──▶ Committed ──url──▶ RemoteAttached
//	                                                            │
//	                        Pushed ◀──push ok───────────────────┤
//	                                                            ▼ push fails
//	      PushedAfterRebase ◀──retry ok── Rebased ◀──pull ok── PushRejected
//
// Declining repository creation stops at NoRepo, an empty remote URL stops
// at Committed, and declining or failing the rebase stops at PushRejected.
// An existing repository skips the whole repository phase without asking.
//
// Git failures end the repository phase and are reported in
// Result.Failure. Only key generation, prompt I/O and completion
// installation produce an error from Run.
package bootstrap

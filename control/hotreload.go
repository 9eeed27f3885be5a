// control/hotreload.go
// Author: momentics <momentics@gmail.com>
//
// Process-wide default ConfigStore plus hot-reload hooks, so a running
// server can have its tunables adjusted without plumbing a store
// through every constructor.

package control

var global = NewConfigStore(DefaultConfig())

// Global returns the process-wide default ConfigStore.
func Global() *ConfigStore {
	return global
}

// RegisterReloadHook subscribes fn to tunable changes on the global
// store.
func RegisterReloadHook(fn func(Config)) {
	global.OnReload(fn)
}

// TriggerHotReload applies mutate to the global tunables and notifies
// every registered hook synchronously with the new snapshot.
func TriggerHotReload(mutate func(*Config)) {
	global.Update(mutate)
}

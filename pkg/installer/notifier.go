package installer

// Notifier is told about every change made on disk, for operator output
type Notifier interface {
	Installed(source, dest string)
	Removed(dest string)
	Restored(dest, unit string)
}

// NopNotifier discards notifications
type NopNotifier struct{}

func (NopNotifier) Installed(string, string) {}
func (NopNotifier) Removed(string)           {}
func (NopNotifier) Restored(string, string)  {}

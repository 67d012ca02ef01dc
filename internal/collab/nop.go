package collab

import (
	"context"
	"net"
)

// Nop implementations satisfy every collaborator contract without doing
// anything. They are the defaults wired by cmd/server until a real service
// is plugged in, and the baseline doubles in tests.

type NopFileProvider struct{}

func (NopFileProvider) Init(context.Context) error { return nil }

type NopPersistence struct{}

func (NopPersistence) Init(context.Context) error { return nil }

type NopSessionMonitor struct{}

func (NopSessionMonitor) Load(context.Context) error { return nil }

type NopEventManager struct{}

func (NopEventManager) Init(net.Listener) error { return nil }

type NopCrashHook struct{}

func (NopCrashHook) Install() error { return nil }

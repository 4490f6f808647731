package handler

import (
	"parley/internal/app/chat"
	"parley/internal/app/storage"
	"parley/internal/app/user"
	"parley/internal/configs"
)

// AppDeps bundles the shared dependencies injected into every handler.
type AppDeps struct {
	Hall    *chat.Hall
	Gate    *chat.Gate
	Config  *configs.AppConfig
	Store   user.Store
	Storage storage.Service
}

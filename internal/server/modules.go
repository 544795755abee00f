package server

import (
	"linkup/internal/module"
	"linkup/internal/modules/feed"
	"linkup/internal/modules/messages"
	"linkup/internal/modules/users"
	"linkup/internal/modules/usersync"
	"linkup/internal/modules/webhook"
)

// AppModules is the central registry of all application modules. The kernel
// iterates over this slice to register and boot each module. Order matters:
// users must register its store before usersync boots against it.
var AppModules = []module.Module{
	&users.UsersModule{},
	&feed.FeedModule{},
	&messages.MessagesModule{},
	&webhook.WebhookModule{},
	&usersync.UserSyncModule{},
}

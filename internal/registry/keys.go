package registry

import (
	"github.com/surrealdb/surrealdb.go"

	"linkup/internal/database"
	"linkup/internal/live"
	"linkup/internal/middleware"
	"linkup/internal/pubsub"
	"linkup/internal/storage"
)

// Service keys shared across modules. Each key is bound to the concrete
// type it stores, so lookups are checked at compile time.
var (
	KeyDB            = Key[*surrealdb.DB]("core.db")
	KeyPublisher     = Key[pubsub.Publisher]("core.publisher")
	KeySubscriber    = Key[pubsub.Subscriber]("core.subscriber")
	KeyLiveQuery     = Key[database.LiveQueryService]("core.livequery")
	KeyAuthenticator = Key[*middleware.Authenticator]("core.authenticator")

	KeyUserStore    = Key[*database.UserStore]("users.store")
	KeyPostStore    = Key[*database.PostStore]("feed.store")
	KeyMessageStore = Key[*database.MessageStore]("messages.store")

	KeyLiveManager = Key[*live.Manager]("messages.live_manager")

	KeyBlobStore = Key[storage.Store]("storage.blobs")
	KeyImageCDN  = Key[*storage.ImageCDN]("storage.cdn")
)

package cmd

import (
	"github.com/stagepass/stagepass/db"
	"github.com/stagepass/stagepass/events"
	"github.com/stagepass/stagepass/mailing"
	"github.com/stagepass/stagepass/storage"
	"github.com/stagepass/stagepass/tokens"
	"go.uber.org/zap"
)

func mustResolveUsableDataStore() *db.DataStore {
	dataStore, err := db.NewStore(TopLevelLogger.Named("database"), LoadedConfig.Database)
	if err != nil {
		TopLevelLogger.Fatal("Failed to create datastore", zap.Error(err))
	}
	err = dataStore.EnsureUsable()
	if err != nil {
		TopLevelLogger.Fatal("Datastore is unusable", zap.Error(err))
	}
	return dataStore
}

func bootstrapDispatcher(auditor db.Auditor) *events.Dispatcher {
	dispatcher := events.NewDispatcher(TopLevelLogger.Named("event_dispatcher"))
	//bootstrap listeners
	dbLayer := db.BootstrapListeners(auditor, TopLevelLogger.Named("event_listener"))
	dispatcher.Register(dbLayer...)
	return dispatcher
}

func mustResolveMailer() *mailing.Mailer {
	mailer, err := mailing.NewMailer(TopLevelLogger.Named("mailer"), LoadedConfig)
	if err != nil {
		TopLevelLogger.Fatal("Failed to create mailer", zap.Error(err))
	}
	return mailer
}

func mustResolveObjectStore() storage.ObjectStore {
	objects, err := storage.NewFileSystemStore(
		LoadedConfig.Storage.Root,
		TopLevelLogger.Named("object_store"),
	)
	if err != nil {
		TopLevelLogger.Fatal("Failed to open object storage", zap.Error(err))
	}
	return objects
}

func resolveAuthority(dataStore *db.DataStore, dispatcher *events.Dispatcher) *tokens.Authority {
	return tokens.NewAuthority(
		dataStore,
		TopLevelLogger.Named("token_authority"),
		dispatcher,
		LoadedConfig.Behaviour.DefaultTokenExpiry,
	)
}

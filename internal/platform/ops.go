package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/yesilw0rks/airnote/pkg/adapters/fs"
	"github.com/yesilw0rks/airnote/pkg/adapters/memory"
	"github.com/yesilw0rks/airnote/pkg/adapters/postgrest"
	"github.com/yesilw0rks/airnote/pkg/core"
)

// initStore opens the local key/value store named by the cache adapter.
// The 'dir' argument is adapter-specific and ignored by "memory".
func initStore(dir string, o *options) (core.KeyValue, error) {
	if o.kv != nil {
		return o.kv, nil
	}

	switch o.cacheAdapter {
	case "fs":
		return initFS(dir, o)
	case "memory":
		return memory.NewKV(), nil
	default:
		return nil, fmt.Errorf("unknown cache adapter: %s", o.cacheAdapter)
	}
}

// initFS resolves the cache directory against the dev sandbox and opens it.
func initFS(path string, o *options) (*fs.Store, error) {
	tempDir, _ := o.config["temp_dir"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)
	ext, _ := o.config["cache_ext"].(string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Read-only access cannot damage the real cache.
	bypassSafety := isReadOnly || !devSafety
	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolved := ResolveCacheDir(path, useTemp)

	if IsDevRun() {
		switch {
		case isReadOnly:
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
		case bypassSafety:
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		default:
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		}
	}

	store := fs.NewStore(fs.Config{
		Dir:          resolved,
		Ext:          ext,
		ReadOnly:     isReadOnly,
		MustExist:    mustExist,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	})
	if err := store.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

// initRemote builds the remote note service.
func initRemote(o *options) (core.RemoteStore, error) {
	if o.remoteStore != nil {
		return o.remoteStore, nil
	}

	url, _ := o.config["url"].(string)
	name := o.remote
	if name == "" {
		name = "offline"
		if url != "" {
			name = "postgrest"
		}
	}

	switch name {
	case "postgrest":
		apiKey, _ := o.config["api_key"].(string)
		token, _ := o.config["access_token"].(string)
		table, _ := o.config["table"].(string)
		timeout, _ := o.config["timeout"].(time.Duration)
		return postgrest.New(postgrest.Config{
			URL:         url,
			APIKey:      apiKey,
			AccessToken: token,
			Table:       table,
			Timeout:     timeout,
			Logger:      o.logger,
		})
	case "memory":
		return memory.NewRemote(), nil
	case "offline":
		// Every call fails, so the client runs from the local cache alone.
		r := memory.NewRemote()
		r.SetOffline(true)
		return r, nil
	default:
		return nil, fmt.Errorf("unknown remote: %s", name)
	}
}

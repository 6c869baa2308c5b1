package internals

import (
	"cantus/internal/internals/cryptofuncs"
	"cantus/internal/internals/db"
	"cantus/internal/internals/notify"
	"cantus/internal/value"
)

// WithDB layers db_connect/db_query/db_execute/db_close onto r, backed
// by a fresh db.Module (SPEC_FULL.md §1.2). Returns r for chaining.
func (r *Registry) WithDB() *Registry {
	mod := db.New()
	r.Register("db_connect", mod.Connect)
	r.Register("db_query", mod.Query)
	r.Register("db_execute", mod.Execute)
	r.Register("db_close", mod.Close)
	return r
}

// WithCrypto layers hash_sha256, hash_blake2b, hash_password,
// check_password, and random_bytes onto r.
func (r *Registry) WithCrypto() *Registry {
	r.Register("hash_sha256", cryptofuncs.HashSHA256)
	r.Register("hash_blake2b", cryptofuncs.HashBlake2b)
	r.Register("hash_password", cryptofuncs.HashPassword)
	r.Register("check_password", cryptofuncs.CheckPassword)
	r.Register("random_bytes", cryptofuncs.RandomBytes)
	return r
}

// WithNotify layers a `notify(message)` builtin onto r that publishes
// to every websocket client connected to b (SPEC_FULL.md §1.2): the
// facade's async completion callback uses this to push "task done"
// events without the core depending on gorilla/websocket directly.
func (r *Registry) WithNotify(b *notify.Broadcaster) *Registry {
	r.Register("notify", func(args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.NewBoolean(false), nil
		}
		b.Publish(value.DisplayOperand(args[0]))
		return value.NewBoolean(true), nil
	})
	return r
}

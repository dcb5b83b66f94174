package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/typefinder/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/typefinder/internal/adapters/driven/host/manifest"
	storagemem "github.com/custodia-labs/typefinder/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/typefinder/internal/core/services"
)

const shopManifest = `
[module]
path = "github.com/acme/shop"
version = "v1.2.0"

[[types]]
id = "github.com/acme/shop.Repository"
kind = "interface"
open = true

[[types]]
id = "github.com/acme/shop.Entity"
kind = "interface"

[[types]]
id = "github.com/acme/shop.Customer"
interfaces = ["github.com/acme/shop.Entity"]

[[types]]
id = "github.com/acme/shop.CustomerRepository"
interfaces = ["github.com/acme/shop.Repository[github.com/acme/shop.Customer]"]

[[types]]
id = "github.com/acme/shop.BaseRepository"
abstract = true
interfaces = ["github.com/acme/shop.Repository[github.com/acme/shop.Customer]"]
`

const configManifest = `
module:
  path: github.com/acme/config
types:
  - id: github.com/acme/config.CustomerConfig
    base: github.com/acme/config.EntityConfig[github.com/acme/shop.Customer]
  - id: github.com/acme/config.Plain
`

const billingManifest = `
[module]
path = "github.com/acme/billing"
requires = ["github.com/acme/ledger"]

[[types]]
id = "github.com/acme/billing.InvoiceRepository"
interfaces = ["github.com/acme/shop.Repository[github.com/acme/billing.Invoice]"]
`

// testEnv holds the services injected into the commands.
type testEnv struct {
	dir      string
	host     *manifest.Host
	finder   *services.TypeFinder
	catalog  *storagemem.ScanCatalog
	config   *storagemem.ConfigStore
	settings *services.SettingsService
}

// setupTestServices injects in-memory services whose plugin directory
// holds the shop and config manifests.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	writeModule(t, dir, "shop.module.toml", shopManifest)
	writeModule(t, dir, "config.module.yaml", configManifest)

	host := manifest.NewHost(nil)
	env := &testEnv{
		dir:     dir,
		host:    host,
		finder:  services.NewTypeFinder(host, host, filesystem.NewProvider()),
		catalog: storagemem.NewScanCatalog(),
		config:  storagemem.NewConfigStore(map[string]any{"plugins.dir": dir}),
	}
	env.settings = services.NewSettingsService(env.config)

	SetServices(&Services{
		TypeFinder: env.finder,
		Catalog:    services.NewCatalogService(env.catalog),
		Settings:   env.settings,
	})
	t.Cleanup(func() {
		SetServices(nil)
		SetBootstrap(nil)
		pluginsDir = ""
	})
	return env
}

func writeModule(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag of cmd and its subcommands to its default
// so state does not leak between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"go-erp-sync/internal/cloudsync"
	"go-erp-sync/internal/config"
	"go-erp-sync/internal/model"
	"go-erp-sync/internal/store"
	"go-erp-sync/pkg/blobstore"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type cli struct {
	cfg    config.Config
	logger *zap.Logger
	store  *store.Store
	out    io.Writer
	now    func() time.Time
}

type command struct {
	usage string
	run   func(c *cli, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"seed":             {"install the sample clients and products", (*cli).seed},
	"stats":            {"dashboard figures for the current month", (*cli).stats},
	"report-sales":     {"-from YYYY-MM-DD -to YYYY-MM-DD", (*cli).reportSales},
	"report-inventory": {"stock counts per status and total value", (*cli).reportInventory},
	"search":           {"-kind clients|products|employees|suppliers -q TEXT", (*cli).search},
	"sale":             {"-client ID -product ID -qty N [-price P] [-payment METHOD]", (*cli).sale},
	"export":           {"[-o FILE] write the whole local state", (*cli).export},
	"import":           {"-f FILE replace the whole local state", (*cli).importFile},
	"pull-inventory":   {"print the remote inventory", (*cli).pullInventory},
	"pull-sales":       {"[-limit N] print the most recent remote sales", (*cli).pullSales},
	"sync-up":          {"push inventory and unsynced sales", (*cli).syncUp},
	"sync-down":        {"overwrite local inventory and sales from remote", (*cli).syncDown},
	"watch":            {"follow remote inventory changes", (*cli).watch},
	"backup":           {"create a remote backup", (*cli).backup},
	"backups":          {"list remote backups", (*cli).backups},
	"restore":          {"-key KEY apply a remote backup locally", (*cli).restore},
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: erp <command> [flags]")
	for _, name := range slices.Sorted(maps.Keys(commands)) {
		fmt.Fprintf(w, "  %-17s %s\n", name, commands[name].usage)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger, args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return errors.New("missing command")
	}
	cmd, ok := commands[args[0]]
	if !ok {
		usage(out)
		return fmt.Errorf("unknown command %q", args[0])
	}

	blobs, err := blobstore.Open(cfg)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}
	defer blobs.Close()

	c := &cli{
		cfg:    cfg,
		logger: logger,
		out:    out,
		now:    time.Now,
	}
	return c.withStore(blobs, func() error { return cmd.run(c, ctx, args[1:]) })
}

func (c *cli) withStore(blobs fiber.Storage, fn func() error) error {
	c.store = store.New(blobs, store.WithKey(c.cfg.LocalKey), store.WithLogger(c.logger))
	if _, err := c.store.Load(); err != nil {
		return err
	}
	return fn()
}

func (c *cli) print(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) seed(context.Context, []string) error {
	if err := c.store.SeedSampleData(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "seeded %d clients and %d products\n", len(c.store.Clients()), len(c.store.Products()))
	return nil
}

func (c *cli) stats(context.Context, []string) error {
	return c.print(c.store.ComputeStats(c.now()))
}

func (c *cli) reportSales(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("report-sales", flag.ContinueOnError)
	now := c.now()
	from := fs.String("from", now.AddDate(0, 0, -30).Format(dateLayout), "first day")
	to := fs.String("to", now.Format(dateLayout), "last day")
	if err := fs.Parse(args); err != nil {
		return err
	}

	start, err := time.ParseInLocation(dateLayout, *from, now.Location())
	if err != nil {
		return fmt.Errorf("bad -from: %w", err)
	}
	end, err := time.ParseInLocation(dateLayout, *to, now.Location())
	if err != nil {
		return fmt.Errorf("bad -to: %w", err)
	}
	return c.print(c.store.SalesReport(start, end))
}

func (c *cli) reportInventory(context.Context, []string) error {
	return c.print(c.store.InventoryReport())
}

func (c *cli) search(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	kind := fs.String("kind", "products", "collection to search")
	q := fs.String("q", "", "text to look for")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch strings.ToLower(*kind) {
	case "clients":
		return c.print(c.store.SearchClients(*q))
	case "products":
		return c.print(c.store.SearchProducts(*q))
	case "employees":
		return c.print(c.store.SearchEmployees(*q))
	case "suppliers":
		return c.print(c.store.SearchSuppliers(*q))
	}
	return fmt.Errorf("unknown kind %q", *kind)
}

func (c *cli) sale(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("sale", flag.ContinueOnError)
	clientID := fs.Int("client", 0, "client id")
	productID := fs.Int("product", 0, "product id")
	qty := fs.Int("qty", 1, "quantity")
	price := fs.String("price", "", "unit price; defaults to the product price")
	payment := fs.String("payment", "cash", "payment method")
	if err := fs.Parse(args); err != nil {
		return err
	}

	item := model.ItemInput{ProductID: *productID, Quantity: *qty}
	if *price != "" {
		p, err := decimal.NewFromString(*price)
		if err != nil {
			return fmt.Errorf("bad -price: %w", err)
		}
		item.UnitPrice = p
	}

	sale, err := c.store.RecordSale(model.SaleInput{
		ClientID:      *clientID,
		Items:         []model.ItemInput{item},
		PaymentMethod: *payment,
	})
	if err != nil {
		return err
	}
	return c.print(sale)
}

func (c *cli) export(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	path := fs.String("o", store.ExportFileName(c.now()), "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := c.store.ExportSnapshot()
	if err != nil {
		return err
	}
	if err := os.WriteFile(*path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "exported to %s\n", *path)
	return nil
}

func (c *cli) importFile(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	path := fs.String("f", "", "snapshot file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errors.New("-f is required")
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		return err
	}
	if err := c.store.ImportSnapshot(data); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "imported %s\n", *path)
	return nil
}

// adapter returns an initialized adapter over the configured backend.
func (c *cli) adapter(ctx context.Context) (*cloudsync.Adapter, error) {
	opts := []cloudsync.Option{cloudsync.WithLogger(c.logger)}
	if c.cfg.RemoteEmail != "" {
		opts = append(opts, cloudsync.WithCredentials(c.cfg.RemoteEmail, c.cfg.RemotePassword))
	}
	a := cloudsync.New(cloudsync.NewHTTPBackend(c.cfg.RemoteURL, c.cfg.SyncTimeout), c.store, opts...)

	ctx, cancel := c.timeout(ctx)
	defer cancel()
	if err := a.Init(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (c *cli) timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.SyncTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.SyncTimeout)
}

func (c *cli) pullInventory(ctx context.Context, _ []string) error {
	a, err := c.adapter(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := c.timeout(ctx)
	defer cancel()
	products, err := a.PullInventory(ctx)
	if err != nil {
		return err
	}
	return c.print(products)
}

func (c *cli) pullSales(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pull-sales", flag.ContinueOnError)
	limit := fs.Int("limit", 0, "most recent N; 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := c.adapter(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := c.timeout(ctx)
	defer cancel()
	sales, err := a.PullSales(ctx, *limit)
	if err != nil {
		return err
	}
	return c.print(sales)
}

func (c *cli) syncUp(ctx context.Context, _ []string) error {
	a, err := c.adapter(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := c.timeout(ctx)
	defer cancel()
	res, err := a.SyncUp(ctx)
	if err != nil {
		return err
	}
	return c.print(res)
}

func (c *cli) syncDown(ctx context.Context, _ []string) error {
	a, err := c.adapter(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := c.timeout(ctx)
	defer cancel()
	res, err := a.SyncDown(ctx)
	if err != nil {
		return err
	}
	return c.print(res)
}

// watch runs until interrupted.
func (c *cli) watch(ctx context.Context, _ []string) error {
	a, err := c.adapter(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "watching remote inventory, ^C to stop")
	return a.SubscribeInventory(ctx, func(products []model.Product) {
		fmt.Fprintf(c.out, "%s inventory changed: %d products\n", c.now().Format(time.RFC3339), len(products))
	})
}

func (c *cli) backup(ctx context.Context, _ []string) error {
	a, err := c.adapter(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := c.timeout(ctx)
	defer cancel()
	summary, err := a.CreateBackup(ctx)
	if err != nil {
		return err
	}
	return c.print(summary)
}

func (c *cli) backups(ctx context.Context, _ []string) error {
	a, err := c.adapter(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := c.timeout(ctx)
	defer cancel()
	list, err := a.ListBackups(ctx)
	if err != nil {
		return err
	}
	return c.print(list)
}

func (c *cli) restore(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	key := fs.String("key", "", "backup key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *key == "" {
		return errors.New("-key is required")
	}

	a, err := c.adapter(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := c.timeout(ctx)
	defer cancel()
	snap, err := a.RestoreBackup(ctx, *key)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "restored %s: %d products, %d sales\n", snap.Key, len(snap.Inventory), len(snap.Sales))
	return nil
}

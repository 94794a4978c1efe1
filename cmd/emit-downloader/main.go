package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/airbusgeo/emit-ingester/catalog"
	"github.com/airbusgeo/emit-ingester/common"
	"github.com/airbusgeo/emit-ingester/downloader"
	cmr "github.com/airbusgeo/emit-ingester/interface/catalog/cmr"
	"github.com/airbusgeo/emit-ingester/interface/provider"
	"github.com/airbusgeo/emit-ingester/interface/shared"
	"github.com/airbusgeo/emit-ingester/service"
	"github.com/airbusgeo/emit-ingester/service/log"
	"github.com/airbusgeo/emit-ingester/workflow"
	"github.com/araddon/dateparse"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"
)

type config struct {
	RegionsPath string
	L2ADir      string
	L2BDir      string

	Workers   int
	Timeout   time.Duration
	ChunkSize int

	CMRURL    string
	StartDate time.Time
	EndDate   time.Time

	EarthdataUsername string
	EarthdataPassword string
	EarthdataToken    string
	EarthdataEndpoint string

	ExportURI  string
	StatusAddr string
	Debug      bool
}

func newAppConfig() (*config, error) {
	config := config{}
	flag.StringVar(&config.RegionsPath, "json", "data/dataset/geojsons", "directory of the geojson regions of interest (or a single geojson file)")
	flag.StringVar(&config.L2ADir, "l2a-dir", "data/dataset/l2a", "directory to store the EMITL2ARFL files")
	flag.StringVar(&config.L2BDir, "l2b-dir", "data/dataset/l2b", "directory to store the EMITL2BCH4PLM files")

	flag.IntVar(&config.Workers, "workers", downloader.DefaultWorkers, "maximum number of concurrent downloads")
	flag.DurationVar(&config.Timeout, "timeout", downloader.DefaultTimeout, "maximum duration of the download of one file")
	flag.IntVar(&config.ChunkSize, "chunk-size", provider.DefaultChunkSize, "size in bytes of the chunks written to disk")

	flag.StringVar(&config.CMRURL, "cmr-url", cmr.DefaultURL, "url of the Common Metadata Repository")
	startDate := flag.String("start", catalog.DefaultStartTime.Format(time.DateOnly), "start of the acquisition period")
	endDate := flag.String("end", catalog.DefaultEndTime.Format(time.DateOnly), "end of the acquisition period (inclusive)")

	flag.StringVar(&config.EarthdataEndpoint, "earthdata-endpoint", shared.EarthdataTokenEndpoint, "Earthdata Login token endpoint")

	flag.StringVar(&config.ExportURI, "export-uri", "", "bucket uri where the downloaded files are also exported (optional, gs://, s3:// or file://)")
	flag.StringVar(&config.StatusAddr, "status-addr", "", "address of the status endpoint (optional, e.g. :8080)")
	flag.BoolVar(&config.Debug, "debug", false, "display debug logs")

	flag.Parse()

	// Credentials
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("godotenv.Load: %w", err)
	}
	config.EarthdataUsername = os.Getenv("EARTHDATA_USERNAME")
	config.EarthdataPassword = os.Getenv("EARTHDATA_PASSWORD")
	config.EarthdataToken = os.Getenv("EARTHDATA_TOKEN")

	if err := config.setDates(*startDate, *endDate); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// setDates parses the acquisition period. A date-only end is inclusive.
func (c *config) setDates(start, end string) error {
	var err error
	if c.StartDate, err = dateparse.ParseIn(start, time.UTC); err != nil {
		return fmt.Errorf("malformed start date: %w", err)
	}
	if c.EndDate, err = dateparse.ParseIn(end, time.UTC); err != nil {
		return fmt.Errorf("malformed end date: %w", err)
	}
	c.EndDate = endOfDay(c.EndDate)
	if c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("end date must be after start date")
	}
	return nil
}

func (c *config) validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk-size must be positive")
	}
	return nil
}

// endOfDay extends a date without time to the last second of the day
func endOfDay(t time.Time) time.Time {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Add(24*time.Hour - time.Second)
	}
	return t
}

func main() {
	ctx := context.Background()
	err := run(ctx)
	log.Sync()
	if err != nil {
		log.Fatal("error", zap.Error(err))
	}
}

func run(ctx context.Context) error {
	config, err := newAppConfig()
	if err != nil {
		return err
	}
	if config.Debug {
		log.SetLevel(zapcore.DebugLevel)
	}
	ctx = log.With(ctx, "run", uuid.New().String())

	if _, err := os.Stat(config.RegionsPath); err != nil {
		return fmt.Errorf("regions: %w", err)
	}

	// Authentication
	ts, err := shared.NewEarthdataTokenSource(nil, config.EarthdataEndpoint, config.EarthdataUsername, config.EarthdataPassword, config.EarthdataToken)
	if err != nil {
		return err
	}
	if err := shared.Login(ctx, ts); err != nil {
		return err
	}
	log.Logger(ctx).Info("authenticated on Earthdata Login")
	httpClient := shared.NewHTTPClient(ctx, ts)

	// Catalog
	c := &catalog.Catalog{
		Provider:  &cmr.Provider{URL: config.CMRURL, Client: httpClient},
		StartTime: config.StartDate,
		EndTime:   config.EndDate,
	}

	// Downloader
	d := &downloader.Downloader{
		Providers: []provider.FileProvider{provider.NewEarthdataProvider(httpClient, config.ChunkSize)},
		Timeout:   config.Timeout,
	}
	if config.ExportURI != "" {
		exporter, err := service.NewExporter(ctx, config.ExportURI)
		if err != nil {
			return err
		}
		defer exporter.Close()
		d.Exporter = exporter
		log.Logger(ctx).Sugar().Infof("exporting files to %s", config.ExportURI)
	}

	wf := workflow.NewWorkflow(c, d, downloader.NewPool(config.Workers), config.L2ADir, config.L2BDir)

	if config.StatusAddr != "" {
		srv := &http.Server{
			Addr:    config.StatusAddr,
			Handler: handlers.LoggingHandler(os.Stderr, handlers.CORS(handlers.AllowedMethods([]string{"GET"}))(wf.NewHandler())),
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Logger(ctx).Warn("status server", zap.Error(err))
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Logger(ctx).Sugar().Infof("status available on %s/status", config.StatusAddr)
	}

	log.Logger(ctx).Sugar().Infof("searching %s and %s between %s and %s", common.ProductL2ARFL.ShortName, common.ProductL2BCH4PLM.ShortName,
		config.StartDate.Format(time.RFC3339), config.EndDate.Format(time.RFC3339))
	return wf.Run(ctx, config.RegionsPath)
}

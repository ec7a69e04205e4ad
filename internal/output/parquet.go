package output

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/calebmoran/giftsim/internal/cloudwriter"
	"github.com/calebmoran/giftsim/internal/models"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// ParquetExporter writes snapshot files of orders and vendor reports,
// locally or to S3, for downstream analytics. The Postgres store remains
// the system of record; exports are provenance only.
type ParquetExporter struct {
	basePath        string
	folder          string
	cloudFactory    cloudwriter.CloudWriterFactory
	cloudBucketName string
}

func NewParquetExporter(cfg *models.Config) (*ParquetExporter, error) {
	exporter := &ParquetExporter{
		basePath: cfg.OutputPath,
		folder:   cfg.OutputFolder,
	}

	if cfg.OutputDestination == "s3" {
		factory, err := cloudwriter.NewS3WriterFactory(cfg.CloudStorage.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 writer factory: %w", err)
		}
		exporter.cloudFactory = factory
		exporter.cloudBucketName = cfg.CloudStorage.BucketName
	}

	return exporter, nil
}

// ExportOrders writes the order set as a single parquet file named by
// topic (e.g. "orders_backfill").
func (p *ParquetExporter) ExportOrders(orders []models.Order, topic string) error {
	fw, err := p.openFile(topic)
	if err != nil {
		return err
	}

	pw, err := writer.NewParquetWriter(fw, new(OrderRow), 4)
	if err != nil {
		fw.Close()
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	for _, order := range orders {
		if err := pw.Write(newOrderRow(order)); err != nil {
			pw.WriteStop()
			fw.Close()
			return fmt.Errorf("failed to write order row: %w", err)
		}
	}
	return closeWriter(pw, fw, topic)
}

// ExportVendorReports writes one aggregation run's reports.
func (p *ParquetExporter) ExportVendorReports(reports []models.VendorReport, topic string) error {
	fw, err := p.openFile(topic)
	if err != nil {
		return err
	}

	pw, err := writer.NewParquetWriter(fw, new(VendorReportRow), 4)
	if err != nil {
		fw.Close()
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	for _, report := range reports {
		if err := pw.Write(newVendorReportRow(report)); err != nil {
			pw.WriteStop()
			fw.Close()
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}
	return closeWriter(pw, fw, topic)
}

func (p *ParquetExporter) openFile(topic string) (source.ParquetFile, error) {
	if p.cloudFactory != nil {
		objectPath := filepath.Join(p.folder, topic, "data.parquet")
		cw, err := p.cloudFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		return NewCloudParquetFile(cw), nil
	}

	dir := filepath.Join(p.basePath, topic)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	filePath := filepath.Join(dir, "data.parquet")
	fw, err := local.NewLocalFileWriter(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create local file writer: %w", err)
	}
	return fw, nil
}

func closeWriter(pw *writer.ParquetWriter, fw source.ParquetFile, topic string) error {
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("failed to finalize parquet file for %s: %w", topic, err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("failed to close parquet file for %s: %w", topic, err)
	}
	log.Printf("Exported parquet snapshot for %s", topic)
	return nil
}

// CloudParquetFile adapts a CloudWriter to the write-only subset of
// source.ParquetFile the writer needs. Reads and true seeks are not
// supported; parquet writing is strictly sequential.
type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewCloudParquetFile(cw cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cw}
}

func (c *CloudParquetFile) Create(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Open(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Write(data []byte) (int, error) {
	n, err := c.cloudWriter.Write(data)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Read(_ []byte) (int, error) {
	return 0, fmt.Errorf("CloudParquetFile is write-only")
}

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	if whence == io.SeekCurrent && offset == 0 {
		return c.offset, nil
	}
	return 0, fmt.Errorf("CloudParquetFile does not support seeking")
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}

package bq

import (
	"context"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mizuki-lab/nocturne/pkg/domain/interfaces"
	"github.com/mizuki-lab/nocturne/pkg/domain/model"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Client writes pipeline run reports to a BigQuery table for fleet
// history. The table is created on first insert when it does not exist.
type Client struct {
	bqClient *bigquery.Client
	dataset  string
	tableID  types.BQTableID
}

var _ interfaces.RunRecorder = (*Client)(nil)

func New(ctx context.Context, projectID types.GoogleProjectID, datasetID types.BQDatasetID, tableID types.BQTableID, options ...option.ClientOption) (*Client, error) {
	bqClient, err := bigquery.NewClient(ctx, projectID.String(), options...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create BigQuery client", goerr.V("projectID", projectID))
	}

	return &Client{
		bqClient: bqClient,
		dataset:  datasetID.String(),
		tableID:  tableID,
	}, nil
}

type jobRow struct {
	Platform  string    `bigquery:"platform"`
	Status    string    `bigquery:"status"`
	CommitSHA string    `bigquery:"commit_sha"`
	AssetName string    `bigquery:"asset_name"`
	Error     string    `bigquery:"error"`
	StartedAt time.Time `bigquery:"started_at"`
	Finished  time.Time `bigquery:"finished_at"`
}

type runRow struct {
	ID        string    `bigquery:"id"`
	Trigger   string    `bigquery:"trigger"`
	Owner     string    `bigquery:"owner"`
	Repo      string    `bigquery:"repo"`
	Branch    string    `bigquery:"branch"`
	CommitSHA string    `bigquery:"commit_sha"`
	StartedAt time.Time `bigquery:"started_at"`
	Jobs      []jobRow  `bigquery:"jobs"`
}

func toRow(report *model.RunReport) *runRow {
	row := &runRow{
		ID:        string(report.ID),
		Trigger:   string(report.Kind),
		Owner:     report.Owner,
		Repo:      report.Repo,
		Branch:    string(report.Branch),
		CommitSHA: string(report.CommitSHA),
		StartedAt: report.StartedAt,
	}
	for _, job := range report.Jobs {
		row.Jobs = append(row.Jobs, jobRow{
			Platform:  string(job.Platform),
			Status:    string(job.Status),
			CommitSHA: string(job.CommitSHA),
			AssetName: job.AssetName,
			Error:     job.Error,
			StartedAt: job.StartedAt,
			Finished:  job.FinishedAt,
		})
	}
	return row
}

func (x *Client) Insert(ctx context.Context, report *model.RunReport) error {
	table := x.bqClient.Dataset(x.dataset).Table(x.tableID.String())

	if err := x.ensureTable(ctx, table); err != nil {
		return err
	}

	if err := table.Inserter().Put(ctx, toRow(report)); err != nil {
		return goerr.Wrap(err, "failed to insert run record",
			goerr.V("dataset", x.dataset), goerr.V("table", x.tableID), goerr.V("run_id", report.ID))
	}

	return nil
}

func (x *Client) ensureTable(ctx context.Context, table *bigquery.Table) error {
	_, err := table.Metadata(ctx)
	if err == nil {
		return nil
	}
	if gErr, ok := err.(*googleapi.Error); !ok || gErr.Code != 404 {
		return goerr.Wrap(err, "failed to get table metadata",
			goerr.V("dataset", x.dataset), goerr.V("table", x.tableID))
	}

	schema, err := bigquery.InferSchema(runRow{})
	if err != nil {
		return goerr.Wrap(err, "failed to infer run record schema")
	}

	if err := table.Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
		// A concurrent insert may have created it first.
		if gErr, ok := err.(*googleapi.Error); ok && gErr.Code == 409 {
			return nil
		}
		return goerr.Wrap(err, "failed to create run record table",
			goerr.V("dataset", x.dataset), goerr.V("table", x.tableID))
	}

	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rithika5656/Telemedicine-nabha/internal/config"
	"github.com/rithika5656/Telemedicine-nabha/internal/connectivity"
	"github.com/rithika5656/Telemedicine-nabha/internal/remote"
	"github.com/rithika5656/Telemedicine-nabha/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show local sync state",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	initLogger(config.LogConfig{Level: "warn", Format: cfg.Log.Format})

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	client := remote.NewClient(cfg.Remote.BaseURL)
	prober := connectivity.NewHTTPProber(client)
	probeCtx, cancel := context.WithTimeout(ctx, remote.DefaultTimeout)
	defer cancel()
	online := prober.HasInterface() && prober.Reachable(probeCtx)

	pending, err := st.CountUnsyncedSymptomReports(ctx)
	if err != nil {
		return err
	}
	queue, err := st.ListQueue(ctx)
	if err != nil {
		return err
	}
	medicines, err := st.ListMedicines(ctx)
	if err != nil {
		return err
	}

	patientName := "(not logged in)"
	cachedRecords := 0
	if patient, err := st.GetPatient(ctx); err == nil {
		patientName = patient.Name
		records, err := st.ListRecords(ctx, patient.ID)
		if err != nil {
			return err
		}
		cachedRecords = len(records)
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	connState := "offline"
	if online {
		connState = "online"
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Patient:\t%s\n", patientName)
	fmt.Fprintf(w, "Connectivity:\t%s\n", connState)
	fmt.Fprintf(w, "Pending reports:\t%d\n", pending)
	fmt.Fprintf(w, "Queued operations:\t%d\n", len(queue))
	fmt.Fprintf(w, "Cached records:\t%d\n", cachedRecords)
	fmt.Fprintf(w, "Cached medicines:\t%d\n", len(medicines))
	return w.Flush()
}

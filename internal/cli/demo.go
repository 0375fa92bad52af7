package cli

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/Illyk/perfgun/internal/output"
	"github.com/Illyk/perfgun/internal/stats"
	"github.com/Illyk/perfgun/internal/writer"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a synthetic workload against the live console writer",
	Long: `Demo feeds the stats writer with a generated workload so the live
console output can be observed without a real execution engine.`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().Int("users", 20, "number of virtual users")
	demoCmd.Flags().Int("iterations", 25, "requests per user")
	demoCmd.Flags().Float64("error-rate", 0.05, "fraction of failing requests")
	demoCmd.Flags().String("flush-period", "2s", "flush period")
	demoCmd.Flags().Bool("no-color", false, "disable colored output")
}

func runDemo(cmd *cobra.Command, args []string) error {
	users, _ := cmd.Flags().GetInt("users")
	iterations, _ := cmd.Flags().GetInt("iterations")
	errorRate, _ := cmd.Flags().GetFloat64("error-rate")
	periodFlag, _ := cmd.Flags().GetString("flush-period")
	noColor, _ := cmd.Flags().GetBool("no-color")

	period, err := time.ParseDuration(periodFlag)
	if err != nil {
		return err
	}

	w, err := writer.Start(writer.Config{
		Catalog:     []stats.Scenario{{Name: "demo", TotalUsers: &users}},
		FlushPeriod: period,
		Summary:     output.NewConsoleSummary(output.ConsoleSummaryConfig{Scheme: colorScheme(noColor)}),
	})
	if err != nil {
		return err
	}

	requests := []string{"list products", "product detail", "add to cart"}

	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w.Dispatch(stats.UserStart{Scenario: "demo"})
			for j := 0; j < iterations; j++ {
				time.Sleep(time.Duration(20+rand.Intn(80)) * time.Millisecond)

				resp := stats.Response{
					Groups:   []string{"storefront"},
					Name:     requests[j%len(requests)],
					Outcome:  stats.OK,
					Duration: time.Duration(5+rand.Intn(200)) * time.Millisecond,
				}
				if rand.Float64() < errorRate {
					resp.Outcome = stats.KO
					resp.Message = "HTTP 500"
				}
				w.Dispatch(resp)
			}
			w.Dispatch(stats.UserEnd{Scenario: "demo"})
		}()
	}
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return w.Stop(ctx)
}

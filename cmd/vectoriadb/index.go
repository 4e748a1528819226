package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vladimir-zatsepin/vectoriadb/api/proto"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/client"
	"github.com/spf13/cobra"
)

func newClient(cmd *cobra.Command) (*client.Client, error) {
	addr, _ := cmd.Flags().GetString("server")
	return client.NewClient(addr)
}

func addServerFlag(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().String("server", "localhost:9440", "Server address")
	}
}

// Index commands
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage indexes",
}

var indexCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		distanceName, _ := cmd.Flags().GetString("distance")
		distance, ok := proto.Distance_value[strings.ToUpper(distanceName)]
		if !ok {
			return fmt.Errorf("unknown distance %q (expected l2, dot or cosine)", distanceName)
		}

		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.CreateIndex(context.Background(), args[0], proto.Distance(distance)); err != nil {
			return err
		}
		fmt.Printf("Index %s created\n", args[0])
		return nil
	},
}

var indexBuildCmd = &cobra.Command{
	Use:   "build <name>",
	Short: "Trigger an index build",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.TriggerIndexBuild(context.Background(), args[0]); err != nil {
			return err
		}

		wait, _ := cmd.Flags().GetBool("wait")
		if wait {
			if err := c.WaitForState(context.Background(), args[0], proto.IndexState_BUILT, time.Second); err != nil {
				return err
			}
			fmt.Printf("Index %s built\n", args[0])
			return nil
		}
		fmt.Printf("Index %s enqueued for build\n", args[0])
		return nil
	},
}

var indexStateCmd = &cobra.Command{
	Use:   "state <name>",
	Short: "Show the lifecycle state of an index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		state, err := c.RetrieveIndexState(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(state.String())
		return nil
	},
}

var indexListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		names, err := c.ListIndexes(context.Background())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var indexDropCmd = &cobra.Command{
	Use:   "drop <name>",
	Short: "Drop an index and delete its data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.DropIndex(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Index %s dropped\n", args[0])
		return nil
	},
}

// Mode commands
var modeCmd = &cobra.Command{
	Use:   "mode <build|search>",
	Short: "Switch the server mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		switch args[0] {
		case "build":
			err = c.SwitchToBuildMode(context.Background())
		case "search":
			err = c.SwitchToSearchMode(context.Background())
		default:
			return fmt.Errorf("unknown mode %q", args[0])
		}
		if err != nil {
			return err
		}
		fmt.Printf("Switched to %s mode\n", args[0])
		return nil
	},
}

// Search command
var searchCmd = &cobra.Command{
	Use:   "search <name> <component>...",
	Short: "Find the nearest neighbours of a query vector",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := make([]float32, 0, len(args)-1)
		for _, arg := range args[1:] {
			v, err := strconv.ParseFloat(arg, 32)
			if err != nil {
				return fmt.Errorf("invalid vector component %q: %w", arg, err)
			}
			query = append(query, float32(v))
		}

		k, _ := cmd.Flags().GetUint32("k")

		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		ids, err := c.FindNearestNeighbours(context.Background(), args[0], k, query)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Println(hex.EncodeToString(id))
		}
		return nil
	},
}

// Status command: follow build progress
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Stream build progress from the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer c.Close()

		return c.BuildStatus(context.Background(), func(resp *proto.BuildStatusResponse) {
			if resp.IndexName == "" {
				fmt.Println("idle")
				return
			}
			for _, phase := range resp.Phases {
				fmt.Printf("%s: %s %.1f%% %s\n",
					resp.IndexName, phase.Name, phase.CompletionPercentage,
					strings.Join(phase.Parameters, " "))
			}
		})
	},
}

func init() {
	indexCreateCmd.Flags().String("distance", "l2", "Distance metric (l2, dot, cosine)")
	indexBuildCmd.Flags().Bool("wait", false, "Wait until the build finishes")
	searchCmd.Flags().Uint32("k", 1, "Number of neighbours to return")

	addServerFlag(indexCreateCmd, indexBuildCmd, indexStateCmd, indexListCmd,
		indexDropCmd, modeCmd, searchCmd, statusCmd)

	indexCmd.AddCommand(indexCreateCmd)
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexStateCmd)
	indexCmd.AddCommand(indexListCmd)
	indexCmd.AddCommand(indexDropCmd)
}

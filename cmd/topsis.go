package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/locus-group/facility-cli/internal/model"
	"github.com/locus-group/facility-cli/internal/table"
	"github.com/locus-group/facility-cli/internal/topsis"
)

var (
	topsisInput     string
	topsisCriteria  string
	topsisDelimiter string
	topsisEncoding  string
	topsisSheet     string
)

// criteriaFile is the YAML shape of a criteria config file: criterion name to
// weight/impact/default. Selection order follows the file's "order" list when
// given, else the table's column order.
type criteriaFile struct {
	Order    []string                  `yaml:"order"`
	Criteria map[string]criterionEntry `yaml:"criteria"`
}

// criterionEntry uses pointer fields so that omitted keys fall back to the
// 1.0/benefit defaults instead of their zero values.
type criterionEntry struct {
	Weight  *float64 `yaml:"weight"`
	Impact  string   `yaml:"impact"`
	Default *float64 `yaml:"default"`
}

func (e criterionEntry) config() model.CriterionConfig {
	cfg := model.DefaultCriterionConfig()
	if e.Weight != nil {
		cfg.Weight = *e.Weight
	}
	if e.Impact != "" {
		cfg.Impact = model.ParseImpact(e.Impact)
	}
	if e.Default != nil {
		cfg.Default = *e.Default
	}
	return cfg
}

var topsisCmd = &cobra.Command{
	Use:   "topsis",
	Short: "Rank candidate points with TOPSIS",
	Long: `Imports a point table whose extra numeric columns are treated as criteria
and prints the TOPSIS ranking.

The criteria file maps column names to weight, impact (benefit|cost), and the
default value for new points:

  criteria:
    rent:   {weight: 3, impact: cost}
    access: {weight: 2, impact: benefit}

Examples:
  facility-cli topsis --input sites.csv --criteria criteria.yaml
  facility-cli topsis --input sites.xlsx`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		frame, status := loadFrame(cmd.Context(), topsisInput, importOptions(topsisDelimiter, topsisEncoding, topsisSheet))
		if status != "" {
			fmt.Println(status)
		}

		points, columns := table.NormalizeCriteria(frame)

		selected := columns
		criteria := model.CriteriaSet{}
		if topsisCriteria != "" {
			file, err := loadCriteriaFile(topsisCriteria)
			if err != nil {
				return err
			}
			for name, entry := range file.Criteria {
				criteria.Set(name, entry.config())
			}
			if len(file.Order) > 0 {
				selected = file.Order
			} else if len(file.Criteria) > 0 {
				// Keep table column order, restricted to configured names.
				var picked []string
				for _, col := range columns {
					if _, ok := criteria[model.Key(col)]; ok {
						picked = append(picked, col)
					}
				}
				selected = picked
			}
		}

		ranking := topsis.Rank(points, selected, criteria)
		if ranking.Empty() {
			fmt.Println("Empty ranking. Provide points and at least one criterion column.")
			return nil
		}

		fmt.Printf("Criteria: ")
		for j, name := range ranking.Criteria {
			fmt.Printf("%s (w=%.3f, %s) ", name, ranking.Weights[j], ranking.Impacts[j])
		}
		fmt.Println()

		fmt.Printf("\n%-6s %-12s %-12s %-14s\n", "rank", "longitude", "latitude", "topsis_score")
		for _, row := range ranking.Rows {
			fmt.Printf("%-6d %-12.6f %-12.6f %-14.6f\n",
				row.Rank, row.Point.Lon, row.Point.Lat, row.Score)
		}

		return nil
	},
}

func init() {
	topsisCmd.Flags().StringVar(&topsisInput, "input", "", "point table file or http(s) URL (required)")
	topsisCmd.Flags().StringVar(&topsisCriteria, "criteria", "", "YAML criteria config file")
	topsisCmd.Flags().StringVar(&topsisDelimiter, "delimiter", "", "CSV delimiter (default from config)")
	topsisCmd.Flags().StringVar(&topsisEncoding, "encoding", "", "CSV encoding (default from config)")
	topsisCmd.Flags().StringVar(&topsisSheet, "sheet", "", "XLSX sheet name (default first sheet)")
	_ = topsisCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(topsisCmd)
}

func loadCriteriaFile(path string) (criteriaFile, error) {
	var file criteriaFile
	data, err := os.ReadFile(path)
	if err != nil {
		return file, eris.Wrapf(err, "topsis: read criteria file %s", path)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, eris.Wrapf(err, "topsis: parse criteria file %s", path)
	}
	return file, nil
}

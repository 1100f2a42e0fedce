// Package catalog parses the ownership declaration that lists which
// TCGPlayer products each person tracks.
//
// Two line dialects are supported and may be mixed in one file:
//
//	Ben, Pikachu ex, 509980                    (owner, display name, product id)
//	# Ben                                      (section header for the URL dialect)
//	https://www.tcgplayer.com/product/509980/  (product URL under a section)
package catalog

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"
)

var productURLPattern = regexp.MustCompile(`/product/(\d+)(?:/|$|\?)`)

// Owner is one person's ordered list of tracked product ids. Ids keep the
// declaration order and are not deduplicated; the same id may appear under
// several owners, each keeping an independent reference.
type Owner struct {
	Name     string
	Products []string
}

// Catalog is the parsed ownership declaration.
type Catalog struct {
	Owners []Owner           // first-appearance order
	Names  map[string]string // product id -> display name, last declaration wins
}

// ParseFile reads and parses the catalog at path.
func ParseFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads the newline-delimited declaration. Malformed lines are skipped
// with a warning and never abort the parse; empty input yields an empty catalog.
func Parse(r io.Reader) (*Catalog, error) {
	cat := &Catalog{Names: make(map[string]string)}
	ownerIdx := make(map[string]int)

	section := "" // current owner in the section/URL dialect
	lineNo := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			header := strings.TrimSpace(line[1:])
			if header != "" {
				section = header
			}
			continue
		}

		if strings.Contains(line, ",") {
			fields := strings.Split(line, ",")
			if len(fields) != 3 {
				log.Printf("Catalog: skipping line %d: expected 3 comma-separated fields, got %d", lineNo, len(fields))
				continue
			}
			owner := strings.TrimSpace(fields[0])
			name := strings.TrimSpace(fields[1])
			id := strings.TrimSpace(fields[2])
			if owner == "" || id == "" {
				log.Printf("Catalog: skipping line %d: empty owner or product id", lineNo)
				continue
			}
			cat.add(ownerIdx, owner, id)
			if name != "" {
				cat.Names[id] = name
			} else if _, ok := cat.Names[id]; !ok {
				cat.Names[id] = syntheticName(id)
			}
			continue
		}

		// Section/URL dialect: a product URL or bare numeric id under a header.
		id := extractProductID(line)
		if id == "" {
			log.Printf("Catalog: skipping line %d: no product id in %q", lineNo, line)
			continue
		}
		if section == "" {
			log.Printf("Catalog: skipping line %d: product %s appears before any owner section", lineNo, id)
			continue
		}
		cat.add(ownerIdx, section, id)
		if _, ok := cat.Names[id]; !ok {
			cat.Names[id] = syntheticName(id)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	return cat, nil
}

func (c *Catalog) add(ownerIdx map[string]int, owner, id string) {
	i, ok := ownerIdx[owner]
	if !ok {
		i = len(c.Owners)
		ownerIdx[owner] = i
		c.Owners = append(c.Owners, Owner{Name: owner})
	}
	c.Owners[i].Products = append(c.Owners[i].Products, id)
}

// ProductIDs returns the unique product ids across all owners in
// first-appearance order. This is the per-run fetch order.
func (c *Catalog) ProductIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, o := range c.Owners {
		for _, id := range o.Products {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// DisplayName returns the declared name for a product id, or a synthesized
// label when the catalog never named it.
func (c *Catalog) DisplayName(id string) string {
	if name, ok := c.Names[id]; ok {
		return name
	}
	return syntheticName(id)
}

// extractProductID pulls the numeric product id out of a TCGPlayer product
// URL, or accepts a bare all-digit line as an id.
func extractProductID(line string) string {
	if m := productURLPattern.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	if line != "" && strings.Trim(line, "0123456789") == "" {
		return line
	}
	return ""
}

func syntheticName(id string) string {
	return "Product " + id
}

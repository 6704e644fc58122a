// Package samples stores JSON samples grouped by agent and grouping key.
package samples

import (
	"encoding/json"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// Category identifies what a group's samples are.
type Category int

const (
	// Events are whole stdout payloads keyed by event kind.
	Events Category = iota
	// Blocks are nested content blocks keyed by block type.
	Blocks
	// Tools are tool inputs keyed by tool name.
	Tools
)

// String returns the category name used in file names and logs.
func (c Category) String() string {
	switch c {
	case Events:
		return "event"
	case Blocks:
		return "content_block"
	case Tools:
		return "tool_input"
	}
	return "unknown"
}

// Group holds the samples of one grouping key. Count includes samples
// dropped by the collection cap.
type Group struct {
	Count   int
	Samples []json.RawMessage
	files   *roaring.Bitmap
}

// Agent holds everything collected for one agent.
type Agent struct {
	Name     string
	Unparsed []string

	groups [3]map[string]*Group
	files  *roaring.Bitmap
}

// Collection is the result of scanning log files. It is not safe for
// concurrent use; scan into separate collections and Absorb them.
type Collection struct {
	MaxSamples int

	agents      map[string]*Agent
	sourceFiles []string
}

// New returns an empty collection storing at most maxSamples per group.
// A non-positive maxSamples stores everything.
func New(maxSamples int) *Collection {
	return &Collection{
		MaxSamples: maxSamples,
		agents:     make(map[string]*Agent),
	}
}

// AddSourceFile registers a scanned file and returns its index.
func (c *Collection) AddSourceFile(path string) uint32 {
	c.sourceFiles = append(c.sourceFiles, path)
	return uint32(len(c.sourceFiles) - 1)
}

// SourceFiles returns every registered file in registration order.
func (c *Collection) SourceFiles() []string {
	return c.sourceFiles
}

// Add stores a sample under (agent, category, name), recording the file it
// came from. The sample is retained only while the group is under the cap.
func (c *Collection) Add(agent string, cat Category, name string, sample json.RawMessage, file uint32) {
	a := c.agent(agent)
	a.files.Add(file)

	g := a.group(cat, name)
	g.Count++
	g.files.Add(file)
	if c.MaxSamples <= 0 || len(g.Samples) < c.MaxSamples {
		g.Samples = append(g.Samples, sample)
	}
}

// AddSample stores a stdout event payload.
func (c *Collection) AddSample(agent, kind string, sample json.RawMessage, file uint32) {
	c.Add(agent, Events, kind, sample, file)
}

// AddContentBlock stores a nested content block.
func (c *Collection) AddContentBlock(agent, blockType string, sample json.RawMessage, file uint32) {
	c.Add(agent, Blocks, blockType, sample, file)
}

// AddToolInput stores a tool input payload.
func (c *Collection) AddToolInput(agent, tool string, sample json.RawMessage, file uint32) {
	c.Add(agent, Tools, tool, sample, file)
}

// AddUnparsed stores a stdout payload that was not valid JSON.
func (c *Collection) AddUnparsed(agent, line string, file uint32) {
	a := c.agent(agent)
	a.files.Add(file)
	a.Unparsed = append(a.Unparsed, line)
}

// Absorb appends other into c as if other's files had been scanned after
// c's. Caps apply to the combined groups.
func (c *Collection) Absorb(other *Collection) {
	offset := uint32(len(c.sourceFiles))
	c.sourceFiles = append(c.sourceFiles, other.sourceFiles...)

	for _, name := range other.Agents() {
		src := other.agents[name]
		dst := c.agent(name)
		dst.files.Or(shift(src.files, offset))
		dst.Unparsed = append(dst.Unparsed, src.Unparsed...)

		for cat := range src.groups {
			for key, sg := range src.groups[cat] {
				dg := dst.group(Category(cat), key)
				dg.Count += sg.Count
				dg.files.Or(shift(sg.files, offset))
				for _, s := range sg.Samples {
					if c.MaxSamples > 0 && len(dg.Samples) >= c.MaxSamples {
						break
					}
					dg.Samples = append(dg.Samples, s)
				}
			}
		}
	}
}

// Agents returns the agents with any collected data, sorted.
func (c *Collection) Agents() []string {
	names := make([]string, 0, len(c.agents))
	for name := range c.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Agent returns the data for one agent, or nil.
func (c *Collection) Agent(name string) *Agent {
	return c.agents[name]
}

// SourceFilesFor returns the files that contributed data for agent.
func (c *Collection) SourceFilesFor(agent string) []string {
	a := c.agents[agent]
	if a == nil {
		return nil
	}
	return c.paths(a.files)
}

// GroupSourceFiles returns the files that contributed samples to g.
func (c *Collection) GroupSourceFiles(g *Group) []string {
	return c.paths(g.files)
}

// TotalStored returns the number of samples retained across every group.
func (c *Collection) TotalStored(cat Category) int {
	total := 0
	for _, a := range c.agents {
		for _, g := range a.groups[cat] {
			total += len(g.Samples)
		}
	}
	return total
}

func (c *Collection) paths(bm *roaring.Bitmap) []string {
	paths := make([]string, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		idx := it.Next()
		if int(idx) < len(c.sourceFiles) {
			paths = append(paths, c.sourceFiles[idx])
		}
	}
	return paths
}

func (c *Collection) agent(name string) *Agent {
	a, ok := c.agents[name]
	if !ok {
		a = &Agent{Name: name, files: roaring.New()}
		c.agents[name] = a
	}
	return a
}

// Names returns the group names in a category, sorted.
func (a *Agent) Names(cat Category) []string {
	names := make([]string, 0, len(a.groups[cat]))
	for name := range a.groups[cat] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Group returns one group, or nil.
func (a *Agent) Group(cat Category, name string) *Group {
	return a.groups[cat][name]
}

// Counts returns the observed count of every group in a category.
func (a *Agent) Counts(cat Category) map[string]int {
	counts := make(map[string]int, len(a.groups[cat]))
	for name, g := range a.groups[cat] {
		counts[name] = g.Count
	}
	return counts
}

// Stored returns the retained sample count of every group in a category.
func (a *Agent) Stored(cat Category) map[string]int {
	stored := make(map[string]int, len(a.groups[cat]))
	for name, g := range a.groups[cat] {
		stored[name] = len(g.Samples)
	}
	return stored
}

func (a *Agent) group(cat Category, name string) *Group {
	if a.groups[cat] == nil {
		a.groups[cat] = make(map[string]*Group)
	}
	g, ok := a.groups[cat][name]
	if !ok {
		g = &Group{files: roaring.New()}
		a.groups[cat][name] = g
	}
	return g
}

func shift(bm *roaring.Bitmap, offset uint32) *roaring.Bitmap {
	if offset == 0 {
		return bm
	}
	out := roaring.New()
	it := bm.Iterator()
	for it.HasNext() {
		out.Add(it.Next() + offset)
	}
	return out
}

package element

import "sort"

// PluginSummary describes one plugin and the elements it provides
type PluginSummary struct {
	Name         string   `json:"name"`
	ElementCount int      `json:"element_count"`
	Elements     []string `json:"elements"`
}

// Plugins groups a registry's elements by providing plugin, sorted by plugin
// name. Elements without plugin metadata are grouped under "unknown".
func Plugins(r Registry) []PluginSummary {
	byPlugin := make(map[string][]string)
	for _, name := range r.Names() {
		info, ok := r.Get(name)
		if !ok {
			continue
		}
		plugin := info.Plugin
		if plugin == "" {
			plugin = "unknown"
		}
		byPlugin[plugin] = append(byPlugin[plugin], name)
	}

	summaries := make([]PluginSummary, 0, len(byPlugin))
	for plugin, elements := range byPlugin {
		summaries = append(summaries, PluginSummary{
			Name:         plugin,
			ElementCount: len(elements),
			Elements:     elements,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries
}

// PluginByName returns the summary for one plugin
func PluginByName(r Registry, name string) (PluginSummary, bool) {
	for _, summary := range Plugins(r) {
		if summary.Name == name {
			return summary, true
		}
	}
	return PluginSummary{}, false
}

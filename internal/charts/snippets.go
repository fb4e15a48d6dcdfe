package charts

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"txgraph/internal/format"
)

// EChartsScriptURL is the ECharts bundle loaded by embedded snippets
const EChartsScriptURL = "https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"

// ChartSnippet represents an embeddable ECharts chart fragment.
// Div contains a single root <div id="..." style="..."></div>.
// Script contains the <script>...</script> block that initializes the chart in that div.
// HTML contains the complete snippet with div + script combined for template substitution.
type ChartSnippet struct {
	ID     string
	Title  string
	Div    string
	Script string
	HTML   string
}

// Tooltips renders the hover text for every timestamp of the raw series,
// keyed by epoch milliseconds
func Tooltips(spec ChartSpec) map[int64]string {
	raw, ok := spec.Layer(DataSeriesName)
	if !ok || spec.Tooltip.Formatter == nil {
		return map[int64]string{}
	}

	averages := map[int64]float64{}
	if ma, ok := spec.Layer(MASeriesName); ok {
		for _, p := range ma.Data {
			averages[p.Timestamp] = p.Value
		}
	}

	tips := make(map[int64]string, len(raw.Data))
	for _, p := range raw.Data {
		items := []format.TooltipItem{{
			SeriesName: DataSeriesName,
			Color:      spec.VisualMap.ColorFor(p.Value),
			Value:      p.Value,
		}}
		if avg, ok := averages[p.Timestamp]; ok {
			items = append(items, format.TooltipItem{SeriesName: MASeriesName, Color: "white", Value: avg})
		}
		tips[p.Timestamp] = spec.Tooltip.Formatter.Tooltip(p.Timestamp, items)
	}
	return tips
}

// Snippet builds an embeddable chart for spec.
// The option is emitted as JSON; the y-axis unit conversion, tooltip
// placement and tooltip content are attached as script callbacks.
func Snippet(spec ChartSpec, title string) (ChartSnippet, error) {
	id := "chart-incoming-tx-" + uuid.NewString()

	optJSON, err := json.Marshal(spec)
	if err != nil {
		return ChartSnippet{}, fmt.Errorf("failed to marshal chart option: %w", err)
	}

	tips := make(map[string]string)
	for ts, html := range Tooltips(spec) {
		tips[strconv.FormatInt(ts, 10)] = html
	}
	tipsJSON, err := json.Marshal(tips)
	if err != nil {
		return ChartSnippet{}, fmt.Errorf("failed to marshal tooltips: %w", err)
	}

	unit := spec.YAxis.UnitFactor
	if unit == 0 {
		unit = 1
	}

	height := spec.Grid.Height.Value() + spec.Grid.Top.Value() + 60
	if spec.Grid.Height.IsPercent() {
		height = 300
	}

	div := fmt.Sprintf("<div id=\"%s\" style=\"width:100%%;height:%.0fpx;\"></div>", id, height)
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById('%s');if(!el)return;var c=echarts.init(el,null,{renderer:'svg'});var option=%s;var tips=%s;var unit=%s;`+
		`option.yAxis.axisLabel.formatter=function(v){return v*unit;};`+
		`option.tooltip.position=function(pos,params,dom,rect,size){var o={top:%d};o[['left','right'][+(pos[0]<size.viewSize[0]/2)]]=%d;return o;};`+
		`option.tooltip.formatter=function(p){return tips[String(p[0].axisValue)]||'';};`+
		`c.setOption(option);window.addEventListener('resize',function(){c.resize();});})();</script>`,
		id, string(optJSON), string(tipsJSON), strconv.FormatFloat(unit, 'f', -1, 64),
		format.TooltipTop, format.TooltipOffset)

	completeHTML := fmt.Sprintf(`<script src="%s"></script>
<div class="chart-container">
	<h3>%s</h3>
	%s
</div>
%s`, EChartsScriptURL, title, div, script)

	return ChartSnippet{ID: id, Title: title, Div: div, Script: script, HTML: completeHTML}, nil
}

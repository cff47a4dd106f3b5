// internal/report/report.go
// Package report renders completed analyses as standalone HTML artifacts:
// a Bootstrap dashboard with the JSON payload embedded for client-side
// rendering, and a go-echarts page for quick visual triage.
package report

import (
	"bytes"
	"encoding/json"
	"html/template"

	"github.com/mwiater/accord/internal/agreement"
	"github.com/mwiater/accord/internal/annotation"
	"github.com/mwiater/accord/internal/consistency"
	"github.com/mwiater/accord/internal/qa"
)

// Summary bundles whichever analyses ran into a single report payload. Nil
// sections simply disappear from the rendered dashboard.
type Summary struct {
	Mode        annotation.Mode      `json:"mode"`
	Agreement   *agreement.Stats     `json:"agreement,omitempty"`
	LeaveOneOut *agreement.LOOResult `json:"leave_one_out,omitempty"`
	QA          *qa.Stats            `json:"qa,omitempty"`
	Consistency *consistency.Stats   `json:"consistency,omitempty"`
}

// DashboardData is the view model handed to the dashboard template.
type DashboardData struct {
	Title       string
	SummaryJSON template.JS
}

// GenerateDashboard renders a standalone HTML dashboard for the bundled
// analyses. The output embeds the summary as JSON, so the same file also
// serves as a machine-readable record.
func GenerateDashboard(summary Summary) (string, error) {
	payload, err := json.Marshal(summary)
	if err != nil {
		return "", err
	}

	viewModel := DashboardData{
		Title:       "accord: Annotation Quality Report",
		SummaryJSON: template.JS(payload),
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, viewModel); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var dashboardTemplate = template.Must(template.New("quality-report").Parse(dashboardTemplateHTML))

const dashboardTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
  <style>
    :root {
      --primary: #334155;
      --secondary: #64748B;
      --accent: #3B82F6;
      --light: #F1F5F9;
      --background: #FFFFFF;
      --text: #0F172A;
      --success: #10B981;
      --warning: #F59E0B;
      --danger: #DC2626;
      --border: #E2E8F0;
    }
    body {
      background-color: var(--light);
      color: var(--text);
    }
    .navbar-dark { background-color: var(--primary) !important; }
    .card {
      border: 1px solid var(--border);
      background-color: var(--background);
    }
    .metric-label {
      font-size: 0.8rem;
      text-transform: uppercase;
      letter-spacing: 0.04em;
      color: var(--secondary);
    }
    .metric-value {
      font-size: 1.6rem;
      font-weight: 700;
    }
    .table thead th { cursor: pointer; }
    .sort-icon { font-size: 0.75rem; margin-left: 0.25rem; color: var(--secondary); }
    .chart-canvas { position: relative; height: 360px; }
    .badge.kind-direction_mismatch, .badge.kind-direction_conflict { background-color: var(--danger); }
    .badge.kind-tie_but_diff, .badge.kind-tie_conflict { background-color: var(--warning); color: #0B1220; }
    .badge.kind-diff_but_tie, .badge.kind-score_adjacent { background-color: var(--secondary); }
    .badge.kind-score_level_conflict { background-color: var(--danger); }
    .video-links a { margin-right: 0.75rem; }
    .prompt-text { color: var(--secondary); font-style: italic; }
  </style>
</head>
<body>
  <nav class="navbar navbar-dark">
    <div class="container-fluid">
      <span class="navbar-brand mb-0 h1">{{ .Title }}</span>
      <span class="text-light">Generated: <span id="generatedAt">-</span></span>
    </div>
  </nav>
  <main class="container-fluid my-4">
    <div class="row g-3" id="summaryCards"></div>

    <section class="mt-4" id="dimensionSection" hidden>
      <div class="card shadow-sm">
        <div class="card-header bg-white"><h5 class="mb-0">Per-Dimension Agreement</h5></div>
        <div class="card-body">
          <div class="chart-canvas"><canvas id="dimensionChart"></canvas></div>
        </div>
      </div>
    </section>

    <section class="mt-4" id="annotatorSection" hidden>
      <div class="card shadow-sm">
        <div class="card-header bg-white"><h5 class="mb-0">Annotators</h5></div>
        <div class="card-body">
          <div class="table-responsive">
            <table class="table table-striped table-hover table-bordered table-sm" id="annotatorTable">
              <thead class="table-light">
                <tr>
                  <th class="sortable" data-type="text">Annotator <span class="sort-icon">&#8597;</span></th>
                  <th class="sortable" data-type="number">Samples <span class="sort-icon">&#8597;</span></th>
                  <th class="sortable" data-type="number">Consensus Agreement (%) <span class="sort-icon">&#8597;</span></th>
                  <th class="sortable" data-type="number">LOO Disagreement (%) <span class="sort-icon">&#8597;</span></th>
                  <th class="sortable" data-type="number">Golden Exact (%) <span class="sort-icon">&#8597;</span></th>
                </tr>
              </thead>
              <tbody></tbody>
            </table>
          </div>
        </div>
      </div>
    </section>

    <section class="mt-4" id="disagreementSection" hidden>
      <div class="card shadow-sm">
        <div class="card-header bg-white"><h5 class="mb-0">Disagreements</h5></div>
        <div class="card-body">
          <div class="table-responsive">
            <table class="table table-striped table-bordered table-sm" id="disagreementTable">
              <thead class="table-light">
                <tr><th>Sample</th><th>Dimension</th><th>Annotators</th><th>Values</th><th>Kind</th></tr>
              </thead>
              <tbody></tbody>
            </table>
          </div>
        </div>
      </div>
    </section>

    <section class="mt-4" id="failingSection" hidden>
      <div class="card shadow-sm">
        <div class="card-header bg-white"><h5 class="mb-0">Golden-Set Failures</h5></div>
        <div class="card-body">
          <div class="accordion" id="failingAccordion"></div>
        </div>
      </div>
    </section>

    <section class="mt-4" id="inconsistencySection" hidden>
      <div class="card shadow-sm">
        <div class="card-header bg-white"><h5 class="mb-0">Pair vs Score Inconsistencies</h5></div>
        <div class="card-body">
          <div class="table-responsive">
            <table class="table table-striped table-bordered table-sm" id="inconsistencyTable">
              <thead class="table-light">
                <tr><th>Sample</th><th>Dimension</th><th>Comparison</th><th>Score A</th><th>Score B</th><th>Type</th></tr>
              </thead>
              <tbody></tbody>
            </table>
          </div>
        </div>
      </div>
    </section>
  </main>

  <script src="https://code.jquery.com/jquery-3.7.1.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/js/bootstrap.bundle.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.2/dist/chart.umd.min.js"></script>
  <script>
    var summary = {{ .SummaryJSON }};
  </script>
  <script>
    (function($) {
      function formatPercent(value, decimals) {
        if (value === null || value === undefined || isNaN(value)) {
          return '-';
        }
        return (Number(value) * 100).toFixed(decimals) + '%';
      }

      function dimensionLabel(dim) {
        return String(dim || '').replace(/_/g, ' ');
      }

      function addCard($row, label, value) {
        var col = $('<div class="col-sm-6 col-lg-2"></div>');
        var card = $('<div class="card shadow-sm h-100"><div class="card-body"></div></div>');
        card.find('.card-body')
          .append($('<div class="metric-label"></div>').text(label))
          .append($('<div class="metric-value"></div>').text(value));
        col.append(card);
        $row.append(col);
      }

      function populateSummary() {
        var $row = $('#summaryCards').empty();
        addCard($row, 'Mode', summary.mode || '-');
        if (summary.agreement) {
          addCard($row, 'Samples', summary.agreement.total_samples);
          addCard($row, 'Annotators', Object.keys(summary.agreement.annotators || {}).length);
          addCard($row, 'Hard Agreement', formatPercent(summary.agreement.hard_agreement_rate, 1));
          addCard($row, 'Soft Agreement', formatPercent(summary.agreement.soft_agreement_rate, 1));
        }
        if (summary.qa) {
          addCard($row, 'Golden Exact', formatPercent(summary.qa.hard_match_rate, 1));
        }
        if (summary.consistency) {
          addCard($row, 'Pair/Score Soft', formatPercent(summary.consistency.soft_match_rate, 1));
        }
      }

      function populateDimensionChart() {
        var source = summary.agreement ? summary.agreement.per_dimension : null;
        var qaSource = summary.qa ? summary.qa.per_dimension : null;
        if (!source && !qaSource) {
          return;
        }
        $('#dimensionSection').prop('hidden', false);

        var dims = Object.keys(source || qaSource).sort();
        var datasets = [];
        if (source) {
          datasets.push({
            label: 'Hard agreement',
            data: dims.map(function(dim) { return (source[dim] || {}).hard_agreement_rate * 100; }),
            backgroundColor: '#334155'
          });
          datasets.push({
            label: 'Soft agreement',
            data: dims.map(function(dim) { return (source[dim] || {}).soft_agreement_rate * 100; }),
            backgroundColor: '#3B82F6'
          });
        }
        if (qaSource) {
          datasets.push({
            label: 'Golden exact',
            data: dims.map(function(dim) { return (qaSource[dim] || {}).hard_match_rate * 100; }),
            backgroundColor: '#10B981'
          });
        }

        new Chart(document.getElementById('dimensionChart'), {
          type: 'bar',
          data: { labels: dims.map(dimensionLabel), datasets: datasets },
          options: {
            responsive: true,
            maintainAspectRatio: false,
            animation: false,
            scales: {
              y: {
                min: 0,
                max: 100,
                ticks: {
                  color: '#64748B',
                  callback: function(value) { return value + '%'; }
                }
              },
              x: { ticks: { color: '#64748B' } }
            },
            plugins: { legend: { position: 'bottom', labels: { color: '#64748B' } } }
          }
        });
      }

      function createNumericCell(value, display) {
        var $td = $('<td></td>').text(display);
        if (value !== null && value !== undefined && !isNaN(value)) {
          $td.attr('data-value', value);
        }
        return $td;
      }

      function populateAnnotatorTable() {
        var ids = {};
        var skills = summary.agreement ? summary.agreement.annotators || {} : {};
        var loo = summary.leave_one_out ? summary.leave_one_out.annotators || {} : {};
        var golden = summary.qa ? summary.qa.per_annotator || {} : {};
        Object.keys(skills).forEach(function(id) { ids[id] = true; });
        Object.keys(loo).forEach(function(id) { ids[id] = true; });
        Object.keys(golden).forEach(function(id) { ids[id] = true; });
        var sorted = Object.keys(ids).sort();
        if (!sorted.length) {
          return;
        }
        $('#annotatorSection').prop('hidden', false);

        var $tbody = $('#annotatorTable tbody').empty();
        sorted.forEach(function(id) {
          var skill = skills[id] || {};
          var outlier = loo[id] || {};
          var gold = golden[id] || {};
          var $row = $('<tr></tr>');
          $row.append($('<td></td>').text(id).attr('data-value', id));
          $row.append(createNumericCell(skill.samples_annotated, skill.samples_annotated !== undefined ? skill.samples_annotated : '-'));
          $row.append(createNumericCell(skill.overall_agreement_rate, formatPercent(skill.overall_agreement_rate, 1)));
          $row.append(createNumericCell(outlier.disagreement_rate, formatPercent(outlier.disagreement_rate, 1)));
          $row.append(createNumericCell(gold.hard_match_rate, formatPercent(gold.hard_match_rate, 1)));
          $tbody.append($row);
        });
        attachSorting();
      }

      var sortingAttached = false;
      function attachSorting() {
        if (sortingAttached) {
          return;
        }
        $('#annotatorTable thead th.sortable').each(function(index) {
          var direction = 'none';
          $(this).on('click', function() {
            var type = $(this).data('type');
            direction = direction === 'asc' ? 'desc' : 'asc';
            sortTable(index, type, direction);
          });
        });
        sortingAttached = true;
      }

      function sortTable(columnIndex, type, direction) {
        var $tbody = $('#annotatorTable tbody');
        var rows = $tbody.find('tr').get();
        rows.sort(function(a, b) {
          var A = $(a).children().eq(columnIndex).attr('data-value');
          var B = $(b).children().eq(columnIndex).attr('data-value');
          if (type === 'number') {
            A = parseFloat(A) || 0;
            B = parseFloat(B) || 0;
          } else {
            A = A || '';
            B = B || '';
          }
          if (A < B) { return direction === 'asc' ? -1 : 1; }
          if (A > B) { return direction === 'asc' ? 1 : -1; }
          return 0;
        });
        $.each(rows, function(_, row) { $tbody.append(row); });
      }

      function kindBadge(kind) {
        return $('<span class="badge"></span>').addClass('kind-' + kind).text(kind);
      }

      function populateDisagreements() {
        var rows = [];
        if (summary.agreement && summary.agreement.disagreements) {
          rows = summary.agreement.disagreements;
        }
        if (!rows.length) {
          return;
        }
        $('#disagreementSection').prop('hidden', false);
        var $tbody = $('#disagreementTable tbody').empty();
        rows.forEach(function(row) {
          var $tr = $('<tr></tr>');
          $tr.append($('<td></td>').text(row.sample_id));
          $tr.append($('<td></td>').text(dimensionLabel(row.dimension)));
          $tr.append($('<td></td>').text(row.annotator_a + ' vs ' + row.annotator_b));
          $tr.append($('<td></td>').text(row.value_a + ' / ' + row.value_b));
          $tr.append($('<td></td>').append(kindBadge(row.kind)));
          $tbody.append($tr);
        });
      }

      function videoLinks(sample) {
        var $links = $('<div class="video-links"></div>');
        function addLink(url, label) {
          if (!url) {
            return;
          }
          $links.append($('<a target="_blank" rel="noopener"></a>').attr('href', url).text(label));
        }
        addLink(sample.video_url, 'video');
        addLink(sample.video_a_url, 'video A');
        addLink(sample.video_b_url, 'video B');
        addLink(sample.ground_truth_url, 'ground truth');
        return $links;
      }

      function populateFailingSamples() {
        var failing = summary.qa ? summary.qa.failing_samples || [] : [];
        if (!failing.length) {
          return;
        }
        $('#failingSection').prop('hidden', false);
        var $accordion = $('#failingAccordion').empty();
        failing.forEach(function(sample, index) {
          var itemId = 'failing_' + index;
          var title = sample.sample_id + ' - ' + (sample.annotator_id || 'unknown') +
            ' (' + formatPercent(sample.soft_match_rate, 0) + ' soft)';
          var $item = $('<div class="accordion-item"></div>');
          $item.append(
            '<h2 class="accordion-header">' +
            '<button class="accordion-button collapsed" type="button" data-bs-toggle="collapse" data-bs-target="#' + itemId + '">' +
            $('<div>').text(title).html() +
            '</button></h2>');
          var $body = $('<div class="accordion-body"></div>');
          if (sample.prompt) {
            $body.append($('<p class="prompt-text"></p>').text(sample.prompt));
          }
          $body.append(videoLinks(sample));
          var $list = $('<ul class="mt-2"></ul>');
          (sample.mismatches || []).forEach(function(mismatch) {
            var detail;
            if (mismatch.golden_comparison || mismatch.annotator_comparison) {
              detail = 'golden ' + (mismatch.golden_comparison || '-') + ', annotator ' + (mismatch.annotator_comparison || '-');
            } else {
              detail = 'golden ' + mismatch.golden_score + ', annotator ' + mismatch.annotator_score +
                (mismatch.level_match ? ' (same severity)' : '');
            }
            $list.append($('<li></li>').text(dimensionLabel(mismatch.dimension) + ': ' + detail));
          });
          $body.append($list);
          $item.append($('<div class="accordion-collapse collapse" data-bs-parent="#failingAccordion"></div>')
            .attr('id', itemId)
            .append($body));
          $accordion.append($item);
        });
      }

      function populateInconsistencies() {
        var rows = summary.consistency ? summary.consistency.inconsistencies || [] : [];
        if (!rows.length) {
          return;
        }
        $('#inconsistencySection').prop('hidden', false);
        var $tbody = $('#inconsistencyTable tbody').empty();
        rows.forEach(function(row) {
          var $tr = $('<tr></tr>');
          $tr.append($('<td></td>').text(row.sample_id));
          $tr.append($('<td></td>').text(dimensionLabel(row.dimension)));
          $tr.append($('<td></td>').text(row.comparison));
          $tr.append($('<td></td>').text(row.score_a));
          $tr.append($('<td></td>').text(row.score_b));
          $tr.append($('<td></td>').append(kindBadge(row.type)));
          $tbody.append($tr);
        });
      }

      $(function() {
        if (!summary) {
          return;
        }
        $('#generatedAt').text(new Date().toLocaleString());
        populateSummary();
        populateDimensionChart();
        populateAnnotatorTable();
        populateDisagreements();
        populateFailingSamples();
        populateInconsistencies();
      });
    })(jQuery);
  </script>
</body>
</html>
`

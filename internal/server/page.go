package server

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(dashboardPageHTML))

const dashboardPageHTML = `{{define "dashboard"}}<!DOCTYPE html>
<html lang="ja">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: #f3f4f6;
            color: #1f2937;
            padding: 24px;
        }
        .page-header {
            display: flex;
            align-items: center;
            justify-content: space-between;
            margin-bottom: 24px;
        }
        .actions { display: flex; gap: 12px; }
        .clear-button {
            position: relative;
            padding: 10px 18px;
            border: none;
            border-radius: 8px;
            background: #3b82f6;
            color: white;
            font-size: 14px;
            cursor: pointer;
        }
        .clear-button:disabled {
            background: #9ca3af;
            cursor: not-allowed;
        }
        .loading-wrapper {
            position: absolute;
            inset: 0;
            display: flex;
            align-items: center;
            justify-content: center;
        }
        .loading {
            width: 16px;
            height: 16px;
            border: 2px solid #ffffff;
            border-top-color: transparent;
            border-radius: 50%;
            animation: spin 1s linear infinite;
        }
        @keyframes spin { to { transform: rotate(360deg); } }
        .section-container {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(320px, 1fr));
            gap: 16px;
        }
        .section {
            background: #ffffff;
            border-radius: 12px;
            padding: 16px;
        }
        .section .name { font-size: 18px; margin-bottom: 12px; }
        .task-table { width: 100%; border-collapse: collapse; font-size: 14px; }
        .task-table th, .task-table td {
            text-align: left;
            padding: 6px 8px;
            border-bottom: 1px solid #e5e7eb;
        }
        .placeholder { color: #9ca3af; text-align: center; }
        footer { margin-top: 24px; font-size: 12px; color: #6b7280; }
    </style>
</head>
<body data-version="{{.Version}}">
    <section class="page-header">
        <h1>{{.Title}}</h1>
        <div class="actions">
            {{- range .Buttons}}
            <form method="post" action="/clear/{{.Target}}">
                <button type="submit" class="clear-button" data-target="{{.Target}}"{{if .Busy}} disabled{{end}}>
                    <span>{{.Label}}</span>
                    {{- if .Busy}}
                    <div class="loading-wrapper"><div class="loading"></div></div>
                    {{- end}}
                </button>
            </form>
            {{- end}}
        </div>
    </section>
    <section class="section-container">
        {{- range .Sections}}
        <section class="section" data-section="{{.Name}}">
            <h2 class="name">{{.Name}}</h2>
            <table class="task-table">
                <thead class="header">
                    <tr><th>name</th><th>updated</th></tr>
                </thead>
                <tbody class="body">
                    {{- range .Rows}}
                    <tr><td>{{.Name}}</td><td>{{.UpdatedAt}}</td></tr>
                    {{- else}}
                    <tr><td colspan="2" class="placeholder">{{$.NoTasks}}</td></tr>
                    {{- end}}
                </tbody>
            </table>
        </section>
        {{- end}}
    </section>
    <footer>
        last refreshed {{.LastRefresh}} &middot; {{.ServerURL}}
        {{- with .Host}} &middot; {{.Hostname}} up {{.UptimeHuman}}{{end}}
    </footer>
    <script>
        (function () {
            if (!window.EventSource) { return; }
            var version = document.body.dataset.version;
            var source = new EventSource('/api/events');
            source.addEventListener('status', function (e) {
                var view = JSON.parse(e.data);
                if (String(view.version) !== version) {
                    window.location.reload();
                }
            });
        })();
    </script>
</body>
</html>
{{end}}`

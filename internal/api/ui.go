package api

import (
	"net/http"
)

const viewerHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>NINA Sequence Editor</title>
    <style>
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: monospace;
            background: #0b1021;
            color: #e6e6e6;
            height: 100vh;
            display: flex;
            flex-direction: column;
        }
        header {
            background: #131a35;
            padding: 12px 20px;
            border-bottom: 1px solid #25305c;
            display: flex;
            gap: 12px;
            align-items: center;
        }
        header h1 { font-size: 16px; font-weight: normal; flex: 1; }
        button {
            background: #25305c;
            color: #e6e6e6;
            border: 0;
            padding: 6px 12px;
            border-radius: 4px;
            cursor: pointer;
        }
        button:disabled { opacity: 0.4; cursor: default; }
        #dirty { color: #fcd34d; font-size: 12px; }
        #status { padding: 4px 10px; border-radius: 4px; font-size: 12px; }
        #status.connected { background: #1b4332; color: #95d5b2; }
        #status.disconnected { background: #7f1d1d; color: #fca5a5; }
        main { flex: 1; display: flex; overflow: hidden; }
        section { flex: 1; overflow-y: auto; padding: 12px; }
        section h2 { font-size: 13px; color: #8b9bd6; margin: 8px 0; text-transform: uppercase; }
        ul { list-style: none; padding-left: 16px; }
        li { padding: 2px 0; font-size: 13px; }
        li.disabled { opacity: 0.4; }
        .type { color: #8b9bd6; }
        .event { font-size: 12px; padding: 4px 0; border-bottom: 1px solid #131a35; }
        .event .name { color: #95d5b2; }
        .event.warn .name { color: #fcd34d; }
    </style>
</head>
<body>
    <header>
        <h1 id="title">NINA Sequence Editor</h1>
        <span id="dirty"></span>
        <button id="undo" onclick="post('/history/undo')">Undo</button>
        <button id="redo" onclick="post('/history/redo')">Redo</button>
        <button onclick="post('/sequence/save')">Save</button>
        <span id="status" class="disconnected">disconnected</span>
    </header>
    <main>
        <section id="tree"></section>
        <section id="events"></section>
    </main>
    <script>
        var reconnectTimer = null;

        function el(tag, cls, text) {
            var e = document.createElement(tag);
            if (cls) e.className = cls;
            if (text) e.textContent = text;
            return e;
        }

        function renderItems(items) {
            var ul = el('ul');
            (items || []).forEach(function(it) {
                var li = el('li', it.enabled ? '' : 'disabled');
                li.appendChild(el('span', '', it.name + ' '));
                li.appendChild(el('span', 'type', '[' + it.status + ']'));
                if (it.items) li.appendChild(renderItems(it.items));
                ul.appendChild(li);
            });
            return ul;
        }

        function refresh() {
            fetch('/sequence').then(function(r) { return r.json(); }).then(function(res) {
                var seq = res.data.sequence;
                document.getElementById('title').textContent = seq.title;
                document.getElementById('dirty').textContent = res.data.dirty ? 'unsaved changes' : '';
                var tree = document.getElementById('tree');
                tree.innerHTML = '';
                [['Start', seq.startItems], ['Target', seq.targetItems], ['End', seq.endItems]].forEach(function(a) {
                    tree.appendChild(el('h2', '', a[0]));
                    tree.appendChild(renderItems(a[1]));
                });
            });
            fetch('/history').then(function(r) { return r.json(); }).then(function(res) {
                document.getElementById('undo').disabled = !res.data.canUndo;
                document.getElementById('redo').disabled = !res.data.canRedo;
            });
        }

        function post(path) {
            fetch(path, { method: 'POST' }).then(refresh);
        }

        function addEvent(e) {
            var row = el('div', 'event' + (e.level === 'warning' ? ' warn' : ''));
            row.appendChild(el('span', '', new Date(e.ts).toLocaleTimeString() + ' '));
            row.appendChild(el('span', 'name', e.event + ' '));
            row.appendChild(el('span', '', e.msg || JSON.stringify(e.fields || {})));
            var log = document.getElementById('events');
            log.insertBefore(row, log.firstChild);
        }

        function setStatus(s) {
            var st = document.getElementById('status');
            st.className = s;
            st.textContent = s;
        }

        function connect() {
            var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
            var ws = new WebSocket(proto + '//' + location.host + '/ws/events');
            ws.onopen = function() { setStatus('connected'); };
            ws.onmessage = function(msg) {
                addEvent(JSON.parse(msg.data));
                refresh();
            };
            ws.onclose = function() {
                setStatus('disconnected');
                clearTimeout(reconnectTimer);
                reconnectTimer = setTimeout(connect, 2000);
            };
        }

        refresh();
        connect();
    </script>
</body>
</html>`

// uiHandler serves the read-only viewer page at "/".
func uiHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(viewerHTML))
}

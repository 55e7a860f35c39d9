package web

import (
	"html/template"
	"io"
)

// pageTemplate is the document shell. The view tree is rendered into #app
// and replaced wholesale on every update pushed over the socket.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>pai-tube</title>
<style>
body{font-family:system-ui,sans-serif;max-width:960px;margin:0 auto;padding:1.5rem;background:#0f172a;color:#e2e8f0}
.hidden{display:none!important}
.url-input{width:100%;padding:.6rem;border-radius:6px;border:1px solid #334155;background:#1e293b;color:inherit}
.btn{margin:.5rem .5rem 0 0;padding:.5rem 1rem;border-radius:6px;border:0;background:#6366f1;color:#fff;cursor:pointer}
.btn[disabled]{opacity:.5;cursor:not-allowed}
.btn.loading::after{content:" \2026"}
.error-text{color:#f87171}
.status-message{margin:1rem 0;padding:.6rem;border-radius:6px}
.status-message.success{background:#14532d}
.status-message.error{background:#7f1d1d}
.status-message.info{background:#1e3a8a}
.video-frame{width:100%;aspect-ratio:16/9;border:0}
.chip{display:inline-block;margin:.2rem;padding:.2rem .6rem;border-radius:999px;background:#334155}
.quiz-item-card{border:1px solid #334155;border-radius:8px;margin:.5rem 0}
.quiz-question-header{width:100%;display:flex;justify-content:space-between;padding:.75rem;background:none;border:0;color:inherit;text-align:left;cursor:pointer}
.quiz-options{display:none;padding:0 .75rem .75rem}
.quiz-item-card.expanded .quiz-options{display:block}
.option-btn{display:block;width:100%;margin:.25rem 0;padding:.5rem;text-align:left;border-radius:6px;border:1px solid #334155;background:#1e293b;color:inherit;cursor:pointer}
.option-btn.selected{border-color:#ef4444;background:#450a0a}
.option-btn.correct{border-color:#22c55e;background:#052e16}
.text-muted{color:#94a3b8}
</style>
</head>
<body>
<div id="app">{{.Body}}</div>
<script>
(function () {
  const session = {{.Session}};
  const app = document.getElementById("app");
  const scheme = location.protocol === "https:" ? "wss://" : "ws://";
  let socket;

  function send(msg) {
    if (socket && socket.readyState === WebSocket.OPEN) socket.send(JSON.stringify(msg));
  }

  // patch swaps in the server's HTML. The focused text input keeps what the
  // user typed, since the server may still be echoing an older value.
  function patch(html) {
    const active = document.activeElement;
    const id = active && active.id;
    const start = active && active.selectionStart;
    const end = active && active.selectionEnd;
    const typed = active && active.dataset && active.dataset.action === "input" ? active.value : null;
    app.innerHTML = html;
    if (id) {
      const el = document.getElementById(id);
      if (el) {
        if (typed !== null && el.dataset.action === "input") el.value = typed;
        el.focus();
        if (typeof start === "number" && el.setSelectionRange) el.setSelectionRange(start, end);
      }
    }
  }

  function connect() {
    socket = new WebSocket(scheme + location.host + "/ws?session=" + encodeURIComponent(session));
    socket.onmessage = function (ev) {
      const msg = JSON.parse(ev.data);
      if (msg.html) patch(msg.html);
      if (msg.copy && navigator.clipboard) navigator.clipboard.writeText(msg.copy).catch(function (err) { console.error("Copy failed", err); });
      if (msg.download) window.location.href = msg.download;
      if (msg.error) console.error(msg.error);
    };
    socket.onclose = function () { setTimeout(connect, 1000); };
  }

  app.addEventListener("input", function (ev) {
    if (ev.target.dataset.action === "input") send({ kind: "input", value: ev.target.value });
  });
  app.addEventListener("click", function (ev) {
    const el = ev.target.closest("[data-action]");
    if (!el || el.dataset.action === "input" || el.disabled) return;
    const msg = { kind: el.dataset.action };
    if (el.dataset.question !== undefined) msg.question = parseInt(el.dataset.question, 10);
    if (el.dataset.key !== undefined) msg.key = el.dataset.key;
    send(msg);
  });

  connect();
})();
</script>
</body>
</html>
`))

type pageData struct {
	Lang    string
	Session string
	Body    template.HTML
}

func writePage(w io.Writer, lang, session, body string) error {
	return pageTemplate.Execute(w, pageData{
		Lang:    lang,
		Session: session,
		Body:    template.HTML(body),
	})
}

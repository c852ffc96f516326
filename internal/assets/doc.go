// Package assets embeds the static files trello2pdf writes next to a card:
// the LaTeX header fragment for pandoc and the stylesheet used by the HTML
// preview and the chrome engine.
package assets

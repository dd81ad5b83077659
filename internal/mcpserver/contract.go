package mcpserver

// ContentFormatContract describes the two content sources the tools read:
// the resources cache file and the TIL Markdown notes.
const ContentFormatContract = `# Folio Content Format

## Resources cache

` + "`" + `src/content/resources-cache.json` + "`" + ` is a JSON array written by ` + "`" + `folio refresh` + "`" + `.
Each element is one Notion page:

` + "```" + `json
{
  "id": "1f2e3d4c-...",
  "data": {
    "icon": null, "cover": null, "archived": false, "in_trash": false,
    "url": "https://www.notion.so/...", "public_url": null,
    "properties": { "...": "raw Notion property objects" },
    "Name": "Alpha Guide",
    "Category": ["Design"],
    "Type": ["Article"],
    "Status": "Up-to-Date",
    "AI summary": "One paragraph summary",
    "Source": "https://example.com/guide",
    "flat": { "...": "every property before field checks" }
  }
}
` + "```" + `

1. Entries are sorted by case-insensitive Name, then id.
2. Only pages whose Status is "Up-to-Date" are present.
3. A known field that fails its check is absent, never null.
4. The file is replaced whole; it is never edited in place.

## TIL notes

Each note under ` + "`" + `src/content/til/` + "`" + ` is Markdown with YAML frontmatter:

` + "```" + `markdown
---
title: Wrapping errors in Go
description: fmt.Errorf with %w keeps the chain.
tags: [go, errors]
date: 2024-03-01
draft: false
---

Body text.
` + "```" + `

- The slug is the path below the TIL directory without ` + "`" + `.md` + "`" + `.
- Drafts and notes without a title are not listed.
- Tag pages use the lowercased tag with whitespace runs replaced by ` + "`" + `-` + "`" + `.
`

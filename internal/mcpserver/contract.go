package mcpserver

// DocumentFormatContract describes how ppage reads Markdown documents, so
// LLM consumers can write content that links and sorts correctly.
const DocumentFormatContract = `# ppage Document Format

Documents are Markdown files under the content root. The identifier of a
document is its path below the root with ".md" and any language suffix
removed and "/" replaced by "-": ` + "`" + `guide/intro.en.md` + "`" + ` is ` + "`" + `guide-intro` + "`" + `.

## Attribute block

An optional block delimited by ` + "`" + `---` + "`" + ` lines at the very start of the file.
One ` + "`" + `key: value` + "`" + ` per line; lists use ` + "`" + `[a, b]` + "`" + `.

` + "```" + `markdown
---
title: Getting Started      # display title; defaults to the first "# " heading, then the file name
id: start                    # overrides the path-derived identifier
order: 1                     # position among siblings; documents without order sort last
parent: guide-intro          # identifier of the parent document in the tree
collection: docs             # grouping; documents without one are in "default"
date: 2025-01-20             # ISO dates sort correctly
author: Alice
category: tutorial
tags: [setup, basics]
relatedDocs: [guide-setup]   # explicit links, listed before links found in the body
pinned: true                 # pinned or sticky documents are listed first
priority: 10                 # higher first, after pinned
---
` + "```" + `

## Links

All of these forms create a link to another document:

- ` + "`" + `[text](/content/guide/setup.md)` + "`" + `
- ` + "`" + `[text](../guide/setup.md)` + "`" + ` or ` + "`" + `[text](guide/setup.md)` + "`" + `
- ` + "`" + `[text](#doc-guide-setup)` + "`" + `
- ` + "`" + `<a href="/content/guide/setup.md">text</a>` + "`" + `

Links to other sites, mail addresses and in-page anchors are ignored. Every
link is reported as a backlink on its target.

## Languages

A document may exist in several languages as ` + "`" + `name.en.md` + "`" + ` and ` + "`" + `name.zh.md` + "`" + `.
The current language wins, then the unsuffixed file, then the fallback
language.

## Folders

A top-level folder may carry an ` + "`" + `index.md` + "`" + ` whose attribute block sets its
title, description, order, layout and icon. Files meant for download go in
the files folder and are served under ` + "`" + `/api/files/{name}` + "`" + `.
`

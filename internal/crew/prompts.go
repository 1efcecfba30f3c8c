package crew

import (
	"blogbrain/pkg/domain"
	"fmt"
	"strings"
)

// Agent personas. Each system prompt sets the role and working rules of one
// agent; the task prompts below carry the per-request instructions.

const researcherSystemPrompt = `You are a Senior Research Analyst: an investigative AI technology journalist with 15 years of experience in artificial intelligence and machine learning.

Your expertise:
- You ONLY research AI-related topics for blog content
- You hate fluff and superficial AI content
- You only trust peer-reviewed research, verified statistics, and authoritative AI sources
- You always prioritize recent AI developments (last 3-6 months preferred)
- You have an instinct for finding what AI blog competitors are missing

Your method:
- ALWAYS use ai_domain_search or multi_source_research for AI topics to ensure credible sources
- Verify ALL major AI claims using verify_ai_claim with 3+ sources before including them
- Prioritize academic sources (arXiv, NeurIPS, etc.) for technical accuracy
- Cross-reference company research blogs (OpenAI, DeepMind, Meta AI) for latest developments
- Check government sources (AI.gov, NSF) for policy and funding insights
- Look for informational gaps: what are the top AI blogs NOT covering?
- Never include unverified claims or statistics

You approach each research task as if you were writing for Nature or Science.`

const strategistSystemPrompt = `You are an SEO Content Strategist with a proven track record of ranking content in highly competitive niches.

Your expertise:
- Deep understanding of search intent (informational, navigational, transactional)
- Mastery of on-page SEO and content structure
- Expert knowledge of LSI keywords and semantic search
- Proven strategies for winning featured snippets

Your approach:
- Create proper heading hierarchy (H1, H2, H3) that serves both users and search engines
- Identify long-tail keyword opportunities that competitors miss
- Structure content to answer "People Also Ask" questions naturally
- Ensure comprehensive topical coverage for E-E-A-T

Your philosophy: the best SEO is great content structured in a way that search
engines can understand and users can easily consume. You create outlines
detailed enough that a writer knows exactly what to write for each section.`

const writerSystemPrompt = `You are a Lead Content Writer: a professional copywriter with expertise in technical and business writing.

Your writing style:
- Conversational yet authoritative, like explaining to a smart friend
- Clear and direct, no beating around the bush
- Evidence-based: claims are backed up with data and citations

Your principles:
- Short paragraphs (2-4 sentences max) for easy scanning
- Bullet points and numbered lists for scannability
- Analogies and examples to explain complex concepts
- Active voice whenever possible
- Vary sentence length for better flow and rhythm

BANNED WORDS AND PHRASES (you NEVER use these AI-isms):
- "unleash", "unlock", "delve", "dive deep into"
- "landscape", "game-changer", "cutting-edge" (unless truly revolutionary)
- "revolutionary", "groundbreaking" (unless backed by evidence)
- "in today's world", "in this day and age"
- "it's no secret that", "needless to say"
- "at the end of the day", "when all is said and done"
- Any phrase that screams "I was written by AI"

Your standards: if you wouldn't read it yourself, rewrite it. Every claim needs
evidence or a citation. Every sentence should be clear on first reading.`

const editorSystemPrompt = `You are a Managing Editor with 20 years of experience in digital publishing and zero tolerance for mediocrity.

Zero tolerance for:
- Robotic or AI-sounding language
- Formatting inconsistencies
- Missing citations or vague claims
- Poor readability or confusing structure
- Meta titles/descriptions that don't compel clicks

Your review process:
1. Content quality: does it sound like a human wrote this? Any AI-isms?
2. Factual verification: are all claims backed by cited evidence?
3. Formatting: one H1, proper H2/H3 nesting, valid links and lists
4. SEO finalization: meta title (55-60 chars), meta description (150-160 chars), URL slug, focus keyword placement
5. Technical validation: reading time, word count, source URL extraction, valid JSON output

You generate the final JSON object that is ready for the API response. Every
field must be filled correctly, every format must be perfect.`

// researchTaskPrompt builds the research stage instructions for a request.
func researchTaskPrompt(req domain.GenerationRequest) string {
	audience := ""
	if req.TargetAudience != "" {
		audience = fmt.Sprintf(" targeting %s", req.TargetAudience)
	}

	return fmt.Sprintf(`Conduct comprehensive AI-focused research for a blog post on: %q%s

Your research MUST include:

1. SEARCH INTENT ANALYSIS
   - What are readers actually looking for when they search this topic?
   - What AI-specific questions are they trying to answer?

2. CREDIBLE SOURCE RESEARCH (USE AI DOMAIN SEARCH TOOLS)
   - Use ai_domain_search with categories: ["academic", "company_research", "government"]
   - Search academic sources (arXiv, NeurIPS, ACL, ICML) for technical foundations
   - Search company research blogs (OpenAI, DeepMind, Meta AI, Anthropic) for latest developments
   - Search government sources (AI.gov, NSF, NIH) for policy and funding insights
   - Prioritize sources from the last 6 months

3. COMPETITOR ANALYSIS
   - Search for the topic in AI blogs and analyze top results
   - What are they covering well? What technical details are they missing?

4. DATA GATHERING & VERIFICATION (MANDATORY)
   - Find recent AI statistics (preferably from the last 6 months)
   - Use verify_ai_claim to verify ALL major claims with 3+ credible sources
   - Record ALL source URLs for citations

5. TRENDING INFORMATION
   - Use news_search to find recent developments
   - What's changed in the last 3-6 months? New models, techniques, papers?

6. USER QUESTIONS
   - What are the common questions for this topic?
   - What would make this content truly valuable to practitioners?

CRITICAL GUIDELINES:
- ALWAYS use ai_domain_search or multi_source_research for primary research, never plain google_search
- Verify ALL statistics and claims with verify_ai_claim (minimum 3 sources)
- Include source credibility scores and categories in your findings
- Keep track of all URLs for proper citation

Produce a research brief with: search intent, 8-12 verified findings (each with
sources and credibility), 5-10 verified statistics, competitor gaps, key user
questions, recent developments, a categorized source list (minimum 15 sources),
and a recommended unique angle for the article.`, req.Topic, audience)
}

// strategyTaskPrompt builds the SEO strategy stage instructions.
func strategyTaskPrompt(req domain.GenerationRequest, brief string) string {
	return fmt.Sprintf(`Based on the research findings below, create a comprehensive SEO-optimized content outline for the topic: %q

The tone should be: %s

Your strategy MUST include:

1. KEYWORD STRATEGY: primary focus keyword, 3-5 secondary keywords, 5-10 LSI keywords, long-tail opportunities
2. CONTENT STRUCTURE: compelling H1 title (55-60 characters, includes focus keyword), H2/H3 hierarchy, logical flow
3. FEATURED SNIPPET OPTIMIZATION: identify snippet opportunities (definition, list, table) and structure sections to win them
4. PEOPLE ALSO ASK INTEGRATION: 5-8 PAA questions mapped to specific sections
5. CONTENT LENGTH & DEPTH: recommended total word count and per-section targets
6. SEO REQUIREMENTS: focus keyword placement (title, first 100 words, H2s, conclusion), meta title template (55-60 chars), meta description template (150-160 chars), URL slug
7. USER ENGAGEMENT: FAQ section structure, actionable takeaways, examples to include

STRATEGIC PRINCIPLES:
- Serve user intent FIRST, SEO optimization SECOND
- Every heading should promise value
- Structure for easy scanning
- Balance comprehensiveness with readability

Return the strategy as a JSON document with focus_keyword, secondary_keywords,
lsi_keywords, meta_data (title_template, description_template, slug) and a
content_outline with h1, introduction, sections (h2, purpose, target_keywords,
word_count, subsections), faq_section and conclusion.

RESEARCH BRIEF:

%s`, req.Topic, req.Tone, brief)
}

// writingTaskPrompt builds the writing stage instructions.
func writingTaskPrompt(req domain.GenerationRequest, brief, strategy string) string {
	exclusion := ""
	if len(req.ExcludeKeywords) > 0 {
		exclusion = fmt.Sprintf("\n\nIMPORTANT - DO NOT USE these words/phrases: %s",
			strings.Join(req.ExcludeKeywords, ", "))
	}

	return fmt.Sprintf(`Using the research brief and SEO strategy outline below, write a complete, engaging blog article in Markdown format.

STRICT REQUIREMENTS:

1. FOLLOW THE OUTLINE EXACTLY: use the exact H1, H2 and H3 headings from the strategy, cover each section in order, meet the word count targets, address all PAA questions
2. WRITING STYLE: natural, conversational yet authoritative voice; address the reader as "you"; short paragraphs (2-4 sentences); active voice; varied sentence length
3. CONTENT QUALITY: every claim backed by research data; cite sources using inline hyperlinks [source text](URL); specific examples and concrete details; no filler
4. SEO INTEGRATION (natural, not forced): focus keyword in first 100 words and in 2-3 H2 headings; LSI keywords throughout
5. STRUCTURE: hook in the first 2 sentences, clear value proposition, bullet points and lists for scannability, smooth transitions, strong actionable conclusion
6. MARKDOWN: # H1, ## H2, ### H3, **bold**, inline links, proper lists
7. CITATIONS: minimum 8-10 inline hyperlinks to the most authoritative sources available

ABSOLUTELY FORBIDDEN:
- "unleash", "unlock", "delve", "dive deep"
- "in today's world", "in this day and age"
- "it's no secret that", "needless to say"
- "game-changer", "revolutionary" (unless truly justified)
- Corporate jargon, robotic or AI-sounding phrases, fluff%s

Total word count: 1,500-2,500 words (match the strategy recommendation). Your
article should read like it was written by a knowledgeable human who genuinely
wants to help the reader understand the topic.

RESEARCH BRIEF:

%s

SEO STRATEGY:

%s`, exclusion, brief, strategy)
}

// editingTaskPrompt builds the editorial review stage instructions. The
// expected JSON shape mirrors the API response article payload.
func editingTaskPrompt(req domain.GenerationRequest, brief, strategy, draft string) string {
	return fmt.Sprintf(`Review and finalize the draft article below for publication. Ensure the content meets publication quality standards and generate all required metadata.

EDITORIAL REVIEW CHECKLIST:

1. CONTENT QUALITY: does it sound authentically human? Consistent tone? Smooth transitions? Strong introduction and conclusion?
2. FACTUAL VERIFICATION: all claims backed by evidence, sources cited with working hyperlinks, at least 8-10 quality citations
3. AI-ISM DETECTION (CRITICAL): scan for banned phrases ("unleash", "unlock", "delve", "dive deep", "in today's world", "it's no secret", "needless to say", "game-changer"), corporate jargon and robotic language. REMOVE or REPHRASE them.
4. FORMATTING: only ONE H1 heading, proper H2/H3 hierarchy, valid Markdown links and lists, short paragraphs
5. SEO COMPLIANCE: focus keyword in first 100 words and 2-3 H2 headings, natural keyword usage, no stuffing
6. MARKDOWN TO HTML: convert the article to clean HTML, preserve all hyperlinks and formatting, keep both versions
7. METADATA: SEO title (55-60 chars, includes focus keyword), meta description (150-160 chars, with CTA), URL slug (lowercase, hyphens, no special characters), focus keyword, estimated reading time (200 WPM), word count, all citation URLs

If the content has minor issues, fix them yourself. Respond ONLY with the final
JSON in a code block:

`+"```json"+`
{
  "status": "approved",
  "metadata": {
    "seo_title": "...",
    "meta_description": "...",
    "slug": "...",
    "focus_keyword": "...",
    "estimated_read_time": "8 mins",
    "word_count": 1850,
    "published_date": "2026-01-01"
  },
  "content": {
    "html_body": "<h1>...</h1>...",
    "markdown_body": "# ..."
  },
  "sources": ["https://..."],
  "quality_checks": {
    "ai_isms_removed": true,
    "citations_count": 12,
    "readability_score": "good",
    "seo_compliance": "passed",
    "human_sounding": true
  },
  "editor_notes": "..."
}
`+"```"+`

If the draft has unfixable quality problems, respond with:

`+"```json"+`
{"status": "rejected", "reason": "...", "required_changes": ["..."]}
`+"```"+`

The article topic is %q with tone %q.

RESEARCH BRIEF:

%s

SEO STRATEGY:

%s

DRAFT ARTICLE:

%s`, req.Topic, req.Tone, brief, strategy, draft)
}

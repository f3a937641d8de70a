package prompts

// ============================================================================
// Lead Generation Prompts
// ============================================================================

// LeadgenSystemPrompt defines the role for the company-name generation
// request. Kept strict so the model returns verifiable names only.
const LeadgenSystemPrompt = `You are a business research assistant. Generate only valid company names that actually exist.`

// LeadgenDefaultUserPrompt is used when no prompt is configured. The
// pipeline appends the configured company limit to it.
const LeadgenDefaultUserPrompt = `Generate a JSON array of real company names in the technology industry. Focus on mid-size companies (100-5000 employees) that would be good prospects for business services. Return only the company names as a JSON array, no additional text.`

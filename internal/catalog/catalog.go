package catalog

import "checkline/internal/domain"

// Categories is the default category catalog for the idea, launch and growth stages.
var Categories = []domain.TaskCategory{
	// idea
	{ID: "idea-identity", Name: "Business Identity", Stage: domain.StageIdea, Order: 1, Icon: "💡"},
	{ID: "idea-research", Name: "Market Research", Stage: domain.StageIdea, Order: 2, Icon: "🔍"},
	{ID: "idea-planning", Name: "Business Planning", Stage: domain.StageIdea, Order: 3, Icon: "📋"},
	{ID: "idea-finance", Name: "Financial Planning", Stage: domain.StageIdea, Order: 4, Icon: "💰"},
	{ID: "idea-legal", Name: "Legal Foundation", Stage: domain.StageIdea, Order: 5, Icon: "⚖️"},
	// launch
	{ID: "launch-brand", Name: "Brand & Marketing", Stage: domain.StageLaunch, Order: 1, Icon: "🎨"},
	{ID: "launch-digital", Name: "Digital Presence", Stage: domain.StageLaunch, Order: 2, Icon: "🌐"},
	{ID: "launch-ops", Name: "Operations Setup", Stage: domain.StageLaunch, Order: 3, Icon: "⚙️"},
	{ID: "launch-product", Name: "Product/Service Ready", Stage: domain.StageLaunch, Order: 4, Icon: "📦"},
	{ID: "launch-sales", Name: "Sales Pipeline", Stage: domain.StageLaunch, Order: 5, Icon: "🤝"},
	// growth
	{ID: "growth-scale", Name: "Scaling Operations", Stage: domain.StageGrowth, Order: 1, Icon: "📈"},
	{ID: "growth-team", Name: "Team Building", Stage: domain.StageGrowth, Order: 2, Icon: "👥"},
	{ID: "growth-revenue", Name: "Revenue Optimization", Stage: domain.StageGrowth, Order: 3, Icon: "💵"},
	{ID: "growth-systems", Name: "Systems & Automation", Stage: domain.StageGrowth, Order: 4, Icon: "🤖"},
	{ID: "growth-network", Name: "Network & Partnerships", Stage: domain.StageGrowth, Order: 5, Icon: "🌍"},
}

// Template describes a seed task before it is assigned to a business.
type Template struct {
	Title        string
	Stage        domain.Stage
	Category     string
	Priority     domain.TaskPriority
	Order        int
	AISuggestion string
}

// Tasks is the seed task catalog. Ids, owners and timestamps are assigned at instantiation.
var Tasks = []Template{
	// idea-identity
	{Title: "Create Mission Statement", Stage: domain.StageIdea, Category: "idea-identity", Priority: domain.PriorityCritical, Order: 1,
		AISuggestion: "A strong mission statement answers: What do you do? Who do you serve? Why does it matter?"},
	{Title: "Define Vision Statement", Stage: domain.StageIdea, Category: "idea-identity", Priority: domain.PriorityCritical, Order: 2,
		AISuggestion: "Where do you see this business in 5 years? Paint the future you're building toward."},
	{Title: "Identify Core Values", Stage: domain.StageIdea, Category: "idea-identity", Priority: domain.PriorityHigh, Order: 3},
	{Title: "Choose Business Name", Stage: domain.StageIdea, Category: "idea-identity", Priority: domain.PriorityCritical, Order: 4},
	{Title: "Write Elevator Pitch", Stage: domain.StageIdea, Category: "idea-identity", Priority: domain.PriorityHigh, Order: 5},
	// idea-research
	{Title: "Identify Target Customer", Stage: domain.StageIdea, Category: "idea-research", Priority: domain.PriorityCritical, Order: 1,
		AISuggestion: "Be specific: age, income, location, pain points, where they hang out online."},
	{Title: "Analyze Competitors", Stage: domain.StageIdea, Category: "idea-research", Priority: domain.PriorityHigh, Order: 2},
	{Title: "Validate Problem-Solution Fit", Stage: domain.StageIdea, Category: "idea-research", Priority: domain.PriorityCritical, Order: 3},
	{Title: "Estimate Market Size (TAM/SAM/SOM)", Stage: domain.StageIdea, Category: "idea-research", Priority: domain.PriorityMedium, Order: 4},
	{Title: "Talk to 10 Potential Customers", Stage: domain.StageIdea, Category: "idea-research", Priority: domain.PriorityCritical, Order: 5,
		AISuggestion: "Nothing replaces real conversations. Ask open-ended questions, listen more than talk."},
	// idea-planning
	{Title: "Write One-Page Business Plan", Stage: domain.StageIdea, Category: "idea-planning", Priority: domain.PriorityHigh, Order: 1},
	{Title: "Define Revenue Model", Stage: domain.StageIdea, Category: "idea-planning", Priority: domain.PriorityCritical, Order: 2},
	{Title: "Set 90-Day Goals", Stage: domain.StageIdea, Category: "idea-planning", Priority: domain.PriorityHigh, Order: 3},
	{Title: "Identify Key Milestones", Stage: domain.StageIdea, Category: "idea-planning", Priority: domain.PriorityMedium, Order: 4},
	// idea-finance
	{Title: "Calculate Startup Costs", Stage: domain.StageIdea, Category: "idea-finance", Priority: domain.PriorityHigh, Order: 1},
	{Title: "Set Pricing Strategy", Stage: domain.StageIdea, Category: "idea-finance", Priority: domain.PriorityHigh, Order: 2},
	{Title: "Open Business Bank Account", Stage: domain.StageIdea, Category: "idea-finance", Priority: domain.PriorityMedium, Order: 3},
	{Title: "Create Budget Forecast (6 months)", Stage: domain.StageIdea, Category: "idea-finance", Priority: domain.PriorityMedium, Order: 4},
	// idea-legal
	{Title: "Choose Business Structure (LLC/Corp/Sole Prop)", Stage: domain.StageIdea, Category: "idea-legal", Priority: domain.PriorityHigh, Order: 1},
	{Title: "Register Business Name", Stage: domain.StageIdea, Category: "idea-legal", Priority: domain.PriorityHigh, Order: 2},
	{Title: "Get EIN (Tax ID)", Stage: domain.StageIdea, Category: "idea-legal", Priority: domain.PriorityHigh, Order: 3},
	{Title: "Research Required Licenses/Permits", Stage: domain.StageIdea, Category: "idea-legal", Priority: domain.PriorityMedium, Order: 4},
	// launch-brand
	{Title: "Design Logo", Stage: domain.StageLaunch, Category: "launch-brand", Priority: domain.PriorityHigh, Order: 1},
	{Title: "Create Brand Style Guide", Stage: domain.StageLaunch, Category: "launch-brand", Priority: domain.PriorityMedium, Order: 2},
	{Title: "Write Brand Story", Stage: domain.StageLaunch, Category: "launch-brand", Priority: domain.PriorityMedium, Order: 3},
	{Title: "Plan Launch Marketing Campaign", Stage: domain.StageLaunch, Category: "launch-brand", Priority: domain.PriorityHigh, Order: 4},
	{Title: "Set Up Social Media Accounts", Stage: domain.StageLaunch, Category: "launch-brand", Priority: domain.PriorityHigh, Order: 5},
	// launch-digital
	{Title: "Register Domain Name", Stage: domain.StageLaunch, Category: "launch-digital", Priority: domain.PriorityCritical, Order: 1},
	{Title: "Build Website (MVP)", Stage: domain.StageLaunch, Category: "launch-digital", Priority: domain.PriorityCritical, Order: 2},
	{Title: "Set Up Business Email", Stage: domain.StageLaunch, Category: "launch-digital", Priority: domain.PriorityHigh, Order: 3},
	{Title: "Set Up Google Business Profile", Stage: domain.StageLaunch, Category: "launch-digital", Priority: domain.PriorityHigh, Order: 4},
	{Title: "Implement Basic SEO", Stage: domain.StageLaunch, Category: "launch-digital", Priority: domain.PriorityMedium, Order: 5},
	// launch-ops
	{Title: "Set Up Accounting System", Stage: domain.StageLaunch, Category: "launch-ops", Priority: domain.PriorityHigh, Order: 1},
	{Title: "Create Standard Operating Procedures", Stage: domain.StageLaunch, Category: "launch-ops", Priority: domain.PriorityMedium, Order: 2},
	{Title: "Set Up Customer Communication Tools", Stage: domain.StageLaunch, Category: "launch-ops", Priority: domain.PriorityHigh, Order: 3},
	{Title: "Choose Payment Processing", Stage: domain.StageLaunch, Category: "launch-ops", Priority: domain.PriorityCritical, Order: 4},
	// launch-product
	{Title: "Finalize Product/Service Offering", Stage: domain.StageLaunch, Category: "launch-product", Priority: domain.PriorityCritical, Order: 1},
	{Title: "Create Sales Materials", Stage: domain.StageLaunch, Category: "launch-product", Priority: domain.PriorityHigh, Order: 2},
	{Title: "Set Up Fulfillment Process", Stage: domain.StageLaunch, Category: "launch-product", Priority: domain.PriorityHigh, Order: 3},
	{Title: "Get Beta Customers (3-5)", Stage: domain.StageLaunch, Category: "launch-product", Priority: domain.PriorityCritical, Order: 4,
		AISuggestion: "Beta customers validate your offering AND become your first testimonials."},
	// launch-sales
	{Title: "Define Sales Process", Stage: domain.StageLaunch, Category: "launch-sales", Priority: domain.PriorityHigh, Order: 1},
	{Title: "Create Lead Generation Strategy", Stage: domain.StageLaunch, Category: "launch-sales", Priority: domain.PriorityHigh, Order: 2},
	{Title: "Set Up CRM", Stage: domain.StageLaunch, Category: "launch-sales", Priority: domain.PriorityMedium, Order: 3},
	{Title: "Make First 10 Sales", Stage: domain.StageLaunch, Category: "launch-sales", Priority: domain.PriorityCritical, Order: 4},
	// growth-scale
	{Title: "Document All Key Processes", Stage: domain.StageGrowth, Category: "growth-scale", Priority: domain.PriorityHigh, Order: 1},
	{Title: "Identify Bottlenecks", Stage: domain.StageGrowth, Category: "growth-scale", Priority: domain.PriorityCritical, Order: 2},
	{Title: "Set Up Quality Metrics", Stage: domain.StageGrowth, Category: "growth-scale", Priority: domain.PriorityHigh, Order: 3},
	{Title: "Plan for 10x Volume", Stage: domain.StageGrowth, Category: "growth-scale", Priority: domain.PriorityMedium, Order: 4},
	// growth-team
	{Title: "Define First Hire Role", Stage: domain.StageGrowth, Category: "growth-team", Priority: domain.PriorityHigh, Order: 1},
	{Title: "Create Hiring Process", Stage: domain.StageGrowth, Category: "growth-team", Priority: domain.PriorityMedium, Order: 2},
	{Title: "Build Company Culture Doc", Stage: domain.StageGrowth, Category: "growth-team", Priority: domain.PriorityMedium, Order: 3},
	{Title: "Set Up Onboarding Playbook", Stage: domain.StageGrowth, Category: "growth-team", Priority: domain.PriorityMedium, Order: 4},
	// growth-revenue
	{Title: "Analyze Unit Economics", Stage: domain.StageGrowth, Category: "growth-revenue", Priority: domain.PriorityCritical, Order: 1},
	{Title: "Identify Upsell/Cross-sell Paths", Stage: domain.StageGrowth, Category: "growth-revenue", Priority: domain.PriorityHigh, Order: 2},
	{Title: "Build Retention Strategy", Stage: domain.StageGrowth, Category: "growth-revenue", Priority: domain.PriorityHigh, Order: 3},
	{Title: "Set Revenue Targets (Monthly)", Stage: domain.StageGrowth, Category: "growth-revenue", Priority: domain.PriorityHigh, Order: 4},
	// growth-systems
	{Title: "Automate Repetitive Tasks", Stage: domain.StageGrowth, Category: "growth-systems", Priority: domain.PriorityHigh, Order: 1},
	{Title: "Set Up Analytics Dashboard", Stage: domain.StageGrowth, Category: "growth-systems", Priority: domain.PriorityMedium, Order: 2},
	{Title: "Implement Customer Feedback Loop", Stage: domain.StageGrowth, Category: "growth-systems", Priority: domain.PriorityHigh, Order: 3},
	{Title: "Plan Tech Stack for Scale", Stage: domain.StageGrowth, Category: "growth-systems", Priority: domain.PriorityMedium, Order: 4},
	// growth-network
	{Title: "Identify Strategic Partners", Stage: domain.StageGrowth, Category: "growth-network", Priority: domain.PriorityHigh, Order: 1},
	{Title: "Join Industry Communities", Stage: domain.StageGrowth, Category: "growth-network", Priority: domain.PriorityMedium, Order: 2},
	{Title: "Build Referral Program", Stage: domain.StageGrowth, Category: "growth-network", Priority: domain.PriorityHigh, Order: 3},
	{Title: "Attend/Host 1 Industry Event", Stage: domain.StageGrowth, Category: "growth-network", Priority: domain.PriorityMedium, Order: 4},
}

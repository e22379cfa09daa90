package handlers

import "prognocore.com/web/internal/content"

// Stat is a headline figure.
type Stat struct {
	Value string
	Label string
}

// Card is an icon, heading and text block.
type Card struct {
	Icon  string
	Title string
	Body  string
}

// ListCard is a heading over a bullet list.
type ListCard struct {
	Title string
	Items []string
}

// IndustryPreview is a home page industry tile with a single headline stat.
type IndustryPreview struct {
	Industry content.Industry
	Blurb    string
	Stat     string
}

// ServicePreview is a home page service tile.
type ServicePreview struct {
	Service content.Service
	Blurb   string
	Points  []string
}

// ROI is one savings range of the calculator band.
type ROI struct {
	Title string
	Range string
	Body  string
}

// HomeData is the view model for the home page.
type HomeData struct {
	HeroDescription string
	HeroStats       []Stat
	ValueProps      []Card
	TechStack       []ListCard
	Industries      []IndustryPreview
	Services        []ServicePreview
	ROI             []ROI
	Advantages      []Card
}

// BuildHomeData constructs the landing page from the registry plus the home-only copy.
func BuildHomeData(reg *content.Registry) HomeData {
	d := HomeData{
		HeroDescription: "PrognoCore empowers industrial operations across Nigeria and globally with cutting-edge " +
			"predictive maintenance technology. Our AI-powered solutions transform equipment monitoring, reduce " +
			"downtime by up to 70%, and optimize maintenance costs through advanced analytics and real-time insights.",
		HeroStats: []Stat{
			{"70%", "Downtime Reduction"},
			{"45%", "Cost Savings"},
			{"8+", "Industries Served"},
		},
		ValueProps: []Card{
			{"⚡", "Prevent Costly Failures", "Equipment failures can cost manufacturing companies up to $50,000 per hour in downtime. " +
				"Our predictive analytics identify potential issues weeks before they occur, allowing for scheduled maintenance during planned shutdowns."},
			{"📊", "Data-Driven Decisions", "Transform raw sensor data into actionable insights. Our machine learning algorithms analyze " +
				"vibration, temperature, pressure, and acoustic patterns to provide precise failure predictions and optimal maintenance scheduling."},
			{"🔧", "Optimize Maintenance Costs", "Move from reactive and time-based maintenance to condition-based maintenance. " +
				"Reduce maintenance costs by up to 45% while extending equipment lifespan and improving overall operational efficiency."},
		},
		TechStack: []ListCard{
			{"IoT Sensors & Hardware", []string{"Vibration analysis sensors", "Temperature and thermal imaging", "Acoustic emission monitoring", "Pressure and flow sensors", "Oil analysis and lubricant monitoring"}},
			{"AI & Machine Learning", []string{"Anomaly detection algorithms", "Failure pattern recognition", "Remaining useful life (RUL) prediction", "Digital twin modeling", "Condition-based maintenance optimization"}},
			{"Data Analytics & Reporting", []string{"Real-time dashboard monitoring", "Predictive maintenance scheduling", "ROI and cost analysis reporting", "Mobile alert systems", "Integration with existing CMMS/ERP"}},
		},
		ROI: []ROI{
			{"Maintenance Cost Reduction", "25-45%", "Lower maintenance expenses through optimized scheduling"},
			{"Downtime Reduction", "50-70%", "Prevent unplanned equipment failures"},
			{"Equipment Lifespan Extension", "20-40%", "Optimize maintenance intervals and procedures"},
		},
		Advantages: []Card{
			{"🇳🇬", "Local Expertise, Global Standards", "Based in Nigeria with deep understanding of local industrial challenges, " +
				"we deliver world-class predictive maintenance solutions that meet international standards."},
			{"🚀", "Rapid Deployment", "Our modular approach enables quick implementation within 4-6 weeks, " +
				"minimizing disruption to your operations while maximizing value delivery."},
			{"💡", "Industry-Specific Solutions", "Tailored solutions for manufacturing, oil & gas, mining, and other industries, " +
				"addressing unique challenges and regulatory requirements."},
			{"🔒", "Enterprise Security", "Bank-grade security protocols, data encryption, and compliance with international " +
				"data protection standards ensure your operational data remains secure."},
		},
	}

	industryTiles := []struct {
		slug  content.IndustrySlug
		blurb string
		stat  string
	}{
		{content.Manufacturing, "Production line optimization, quality control, and equipment reliability for manufacturing plants", "40% efficiency improvement"},
		{content.OilGas, "Critical equipment monitoring in harsh environments, pipeline integrity, and refinery operations", "60% downtime reduction"},
		{content.PowerUtilities, "Grid reliability, generator monitoring, and renewable energy asset management", "99.9% uptime achieved"},
		{content.Mining, "Heavy machinery monitoring, conveyor systems, and crushing equipment optimization", "50% maintenance cost reduction"},
	}
	for _, tile := range industryTiles {
		if ind, ok := reg.Industry(string(tile.slug)); ok {
			d.Industries = append(d.Industries, IndustryPreview{Industry: ind, Blurb: tile.blurb, Stat: tile.stat})
		}
	}

	serviceTiles := []struct {
		slug   content.ServiceSlug
		title  string
		blurb  string
		points []string
	}{
		{content.EquipmentMonitoring, "Equipment Condition Monitoring",
			"Real-time monitoring with advanced IoT sensors, vibration analysis, and thermal imaging for comprehensive equipment health assessment",
			[]string{"24/7 Real-time monitoring", "Multi-sensor integration", "Cloud-based analytics"}},
		{content.PredictiveAnalytics, "AI-Powered Predictive Analytics",
			"Machine learning algorithms that predict equipment failures weeks in advance, enabling proactive maintenance planning",
			[]string{"Failure prediction algorithms", "Remaining useful life estimation", "Pattern recognition"}},
		{content.ERPIntegration, "Enterprise System Integration",
			"Seamless integration with existing ERP, CMMS, and enterprise systems for unified operations management",
			[]string{"SAP integration", "Custom API development", "Workflow automation"}},
	}
	for _, tile := range serviceTiles {
		if svc, ok := reg.Service(string(tile.slug)); ok {
			// the home tiles use shorter headings than the detail pages
			svc.Title = tile.title
			d.Services = append(d.Services, ServicePreview{Service: svc, Blurb: tile.blurb, Points: tile.points})
		}
	}
	return d
}

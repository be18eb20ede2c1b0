// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package enrich

import (
	"fmt"

	"github.com/poiesic/bioscout/core"
)

const systemPrompt = "You are a research assistant that extracts specific information in JSON format."

const companyPromptTemplate = `You are an expert in biopharmaceutical research with the ability to search the web for up-to-date information.
For the company %q, please research and provide the following details:
1. Company: The full name of the company.
2. Asset: The name of the asset or product they are developing.
3. Asset Target: The specific biological target or pathway the asset addresses.
4. Asset Type: The specific type of asset (e.g., small molecule, biologic, device, etc.).
5. Modality: The specific therapeutic modality being used (e.g., antibody, gene therapy, cell therapy, etc.).
6. Disease: The disease area or condition being targeted.
7. Global Highest Phase: The highest phase of clinical development reached globally (e.g., Phase I, Phase II, etc.).
8. Indication: The specific medical indication for which the asset is being developed.
9. Mechanism/Technology: The specific mechanism of action or technology underlying the asset, in as much detail as possible.

Please return the results as a JSON object with keys:
"Company", "Asset", "Asset Target", "Asset Type", "Modality", "Disease", "Global Highest Phase", "Indication", "Mechanism/Technology".

Return only the JSON object without any additional commentary.
It is essential that you be as detailed, thorough, and accurate as possible.
Consult as many sources as needed. Use any reliable source.
If any information is not available, set its value to null.`

const dealPromptTemplate = `You are an expert in biopharmaceutical business development with the ability to search the web for up-to-date information.
For the transaction in which %q acquired or partnered with %q, please research and provide the following details:
1. Acquirer: The full name of the acquiring or licensing company.
2. Target Company: The full name of the company being acquired or partnered with.
3. Deal Type: The type of transaction (e.g., acquisition, merger, licensing, collaboration, etc.).
4. Deal Value: The total disclosed value of the deal.
5. Payment Structure: How the consideration is structured (e.g., upfront cash, milestones, royalties, stock).
6. Financial Advisors: The financial advisors engaged on either side, if disclosed.
7. Announcement Date: The date the deal was publicly announced.
8. Deal Terms: The key terms of the agreement.
9. Strategic Rationale: The stated strategic rationale for the transaction.
10. Additional Details: Any other material details about the deal.

Please return the results as a JSON object with keys:
"Acquirer", "Target Company", "Deal Type", "Deal Value", "Payment Structure", "Financial Advisors", "Announcement Date", "Deal Terms", "Strategic Rationale", "Additional Details".

Return only the JSON object without any additional commentary.
It is essential that you be as detailed, thorough, and accurate as possible.
Consult as many sources as needed. Use any reliable source.
If any information is not available, set its value to null.`

// buildPrompt returns the enrichment prompt for a record, or "" for
// pass-through kinds.
func buildPrompt(r core.Record) string {
	switch rec := r.(type) {
	case *core.Company:
		return fmt.Sprintf(companyPromptTemplate, rec.Name)
	case *core.Deal:
		return fmt.Sprintf(dealPromptTemplate, rec.Acquirer, rec.Acquired)
	default:
		return ""
	}
}
